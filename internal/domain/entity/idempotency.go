package entity

import (
	"time"
)

// IdempotencyKey stores the response of a processed checkout so a retried
// submission replays it instead of recording a second sale
type IdempotencyKey struct {
	Key          string    `gorm:"size:255;primaryKey"`
	Actor        string    `gorm:"size:64;not null;index"` // session user id, or client ip without a session
	Endpoint     string    `gorm:"size:255;not null"`      // e.g. "POST /api/v1/direct-sales"
	RequestHash  string    `gorm:"size:64"`                // sha256 of the request body
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
