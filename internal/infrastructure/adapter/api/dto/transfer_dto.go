package dto

// TransferRequest is the body for the transfer endpoint
type TransferRequest struct {
	FromUserID  string `json:"fromUserId" binding:"required"`
	ToUserID    string `json:"toUserId" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

// TransferResponse reports a committed transfer with both post-transfer balances
type TransferResponse struct {
	FromUserID   string `json:"fromUserId"`
	ToUserID     string `json:"toUserId"`
	Amount       string `json:"amount"`
	FromBalance  string `json:"fromBalance"`
	ToBalance    string `json:"toBalance"`
	ReferenceID  string `json:"referenceId"`
	OutgoingTxID string `json:"outgoingTransactionId"`
	IncomingTxID string `json:"incomingTransactionId"`
}
