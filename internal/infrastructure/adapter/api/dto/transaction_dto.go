package dto

import "time"

// MutationRequest is the body for credit and debit endpoints
type MutationRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
	ReferenceID string `json:"referenceId"`
	PackageID   string `json:"packageId"`
}

// MutationResponse reports a committed credit or debit
type MutationResponse struct {
	UserID        string `json:"userId"`
	TransactionID string `json:"transactionId"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Balance       string `json:"balance"`
	AlertLevel    string `json:"alertLevel"`
}

// TransactionEntry is one history row
type TransactionEntry struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Description   string    `json:"description,omitempty"`
	ReferenceID   string    `json:"referenceId,omitempty"`
	PackageID     string    `json:"packageId,omitempty"`
	ResultBalance string    `json:"resultBalance"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HistoryResponse is the paged transaction history for a user
type HistoryResponse struct {
	UserID       string             `json:"userId"`
	Transactions []TransactionEntry `json:"transactions"`
}
