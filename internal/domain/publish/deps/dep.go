package deps

import (
	"context"

	"github.com/Conte777/newsrelay/internal/domain/publish/entities"
)

// RelayClient opens sessions against a set of relay endpoints
type RelayClient interface {
	// Connect dials every endpoint and returns a session over those that answered.
	// The session is never nil; the error reports endpoints that could not be reached.
	Connect(ctx context.Context, endpoints []string) (Session, error)
}

// Session is a set of connected relays
type Session interface {
	// Relays returns the URLs of the connected relays
	Relays() []string

	// SetProfile pushes a signed kind-0 event
	SetProfile(ctx context.Context, event *entities.SignedEvent) error

	// Publish broadcasts a signed event; it fails only if no relay accepted it
	Publish(ctx context.Context, event *entities.SignedEvent) error

	// Disconnect closes every relay connection
	Disconnect() error
}

// Signer signs events under an encoded private key
type Signer interface {
	Sign(privateKey string, event entities.Event) (*entities.SignedEvent, error)
}
