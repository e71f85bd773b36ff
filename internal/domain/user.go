package domain

import (
	"time"
)

// User represents an application user with their running revenue totals.
// TotalReceipts and TotalRevenue are maintained by signed deltas on every
// receipt mutation, not recomputed from scratch.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	TotalReceipts int64     `json:"totalReceipts"`
	TotalRevenue  int64     `json:"totalRevenue"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
