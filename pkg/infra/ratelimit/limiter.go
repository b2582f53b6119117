package ratelimit

import (
	"context"
	"time"
)

// Window is the rolling window every cap is expressed against.
const Window = time.Minute

//go:generate mockery --name=Limiter --dir=. --output=./mocks --filename=limiter_mock.go --case=underscore --with-expecter
type Limiter interface {
	// Allow admits the message and records it, or reports that actorID already sent
	// limit messages to roomID within the last Window. Rejected messages are not recorded.
	Allow(ctx context.Context, actorID, roomID string, limit int, now time.Time) (bool, error)
	Reset(ctx context.Context, actorID, roomID string) error
}
