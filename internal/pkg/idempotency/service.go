package idempotency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Service runs operations at most once per key within the TTL
type Service struct {
	storage Storage
	ttl     time.Duration
}

// NewService creates a new idempotency service
func NewService(storage Storage, ttl time.Duration) *Service {
	return &Service{
		storage: storage,
		ttl:     ttl,
	}
}

// TTL returns how long completed results are replayed
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Execute runs fn once for key and replays its JSON-encoded result on later
// calls. A failed fn releases the key so the client can retry.
// replayed reports whether the result came from an earlier call.
func Execute[T any](ctx context.Context, s *Service, key string, fn func(ctx context.Context) (T, error)) (result T, replayed bool, err error) {
	var zero T

	if key == "" || len(key) > MaxKeyLength {
		return zero, false, ErrInvalidKey
	}

	record, err := s.storage.Load(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("%w: failed to load record: %v", ErrStorageFailure, err)
	}
	if record != nil {
		switch record.Status {
		case StatusCompleted:
			var cached T
			if err := json.Unmarshal(record.Result, &cached); err != nil {
				return zero, false, fmt.Errorf("%w: failed to unmarshal cached result: %v", ErrSerializationFailure, err)
			}
			return cached, true, nil
		case StatusProcessing:
			return zero, false, ErrAlreadyProcessing
		}
	}

	marked, err := s.storage.TryMarkProcessing(ctx, key, s.ttl)
	if err != nil {
		return zero, false, fmt.Errorf("%w: failed to mark processing: %v", ErrStorageFailure, err)
	}
	if !marked {
		// Another request won the race
		return zero, false, ErrAlreadyProcessing
	}

	result, err = fn(ctx)
	if err != nil {
		_ = s.storage.Release(ctx, key)
		return zero, false, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		_ = s.storage.Release(ctx, key)
		return zero, false, fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}

	if err := s.storage.SaveResult(ctx, key, data, s.ttl); err != nil {
		return zero, false, fmt.Errorf("%w: failed to save result: %v", ErrStorageFailure, err)
	}

	return result, false, nil
}
