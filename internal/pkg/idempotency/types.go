package idempotency

import (
	"context"
	"time"
)

// MaxKeyLength bounds client supplied keys
const MaxKeyLength = 255

// Status represents the state of an idempotency record
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// Record represents an idempotency record with state and result
type Record struct {
	Key       string
	Status    Status
	Result    []byte
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Storage defines the interface for idempotency storage backends
type Storage interface {
	// Load retrieves a live record by key, nil if absent or expired
	Load(ctx context.Context, key string) (*Record, error)

	// TryMarkProcessing claims key for the caller; false if someone else holds it
	TryMarkProcessing(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// SaveResult stores the completed result for ttl
	SaveResult(ctx context.Context, key string, result []byte, ttl time.Duration) error

	// Release drops a claim so the operation can be retried
	Release(ctx context.Context, key string) error
}
