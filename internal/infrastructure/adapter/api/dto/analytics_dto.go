package dto

import "time"

// SpendingPatternResponse summarizes one user's credit activity
type SpendingPatternResponse struct {
	UserID                string     `json:"userId"`
	TotalAdded            string     `json:"totalAdded"`
	TotalDeducted         string     `json:"totalDeducted"`
	TransactionCount      int64      `json:"transactionCount"`
	AveragePerTransaction string     `json:"averagePerTransaction"`
	MostRecentActivity    *time.Time `json:"mostRecentActivity,omitempty"`
}

// OverviewResponse aggregates state across all users
type OverviewResponse struct {
	TotalUsers                int64  `json:"totalUsers"`
	TotalCreditsInCirculation string `json:"totalCreditsInCirculation"`
	TotalTransactions         int64  `json:"totalTransactions"`
}
