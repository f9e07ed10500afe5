package dto

// BatchOperation is one independent grant inside a batch request
type BatchOperation struct {
	UserID      string `json:"userId" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
	ReferenceID string `json:"referenceId"`
	PackageID   string `json:"packageId"`
}

// BatchGrantRequest is the body for the administrative batch grant endpoint
type BatchGrantRequest struct {
	Operations []BatchOperation `json:"operations" binding:"required,min=1,dive"`
}

// BatchItemResult reports the outcome of one batch item
type BatchItemResult struct {
	UserID     string `json:"userId"`
	Success    bool   `json:"success"`
	NewBalance string `json:"newBalance,omitempty"`
	ErrorCode  int    `json:"errorCode,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchGrantResponse reports per-item outcomes in input order
type BatchGrantResponse struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Results   []BatchItemResult `json:"results"`
}
