package idempotency

import "errors"

var (
	// ErrAlreadyProcessing is returned while another request holds the key
	ErrAlreadyProcessing = errors.New("idempotency: key is already being processed")

	// ErrStorageFailure wraps storage backend errors
	ErrStorageFailure = errors.New("idempotency: storage operation failed")

	// ErrSerializationFailure wraps result encode/decode errors
	ErrSerializationFailure = errors.New("idempotency: serialization failed")

	// ErrInvalidKey is returned for empty or oversized keys
	ErrInvalidKey = errors.New("idempotency: invalid key")
)
