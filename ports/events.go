package ports

import "context"

// EventPublisher publishes session lifecycle events to notify other
// components and instances.
type EventPublisher interface {
	// SessionStarted announces a freshly committed session
	SessionStarted(ctx context.Context) error

	// SessionEnded announces a torn-down session with the teardown reason
	// ("logout", "expired", "revoked")
	SessionEnded(ctx context.Context, reason string) error
}
