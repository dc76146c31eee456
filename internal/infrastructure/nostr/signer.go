package nostr

import (
	"fmt"

	gonostr "github.com/nbd-wtf/go-nostr"

	"github.com/Conte777/newsrelay/internal/domain/publish/entities"
)

// Signer signs events with schnorr signatures
type Signer struct{}

// NewSigner creates a new event signer
func NewSigner() *Signer {
	return &Signer{}
}

// Sign signs event under the nsec-encoded private key
func (s *Signer) Sign(privateKey string, event entities.Event) (*entities.SignedEvent, error) {
	sk, err := DecodePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}

	ev := gonostr.Event{
		Kind:      event.Kind,
		Content:   event.Content,
		Tags:      toTags(event.Tags),
		CreatedAt: gonostr.Timestamp(event.CreatedAt.Unix()),
	}

	if err := ev.Sign(sk); err != nil {
		return nil, fmt.Errorf("failed to sign event: %w", err)
	}

	return fromEvent(ev), nil
}

func toTags(tags [][]string) gonostr.Tags {
	out := make(gonostr.Tags, 0, len(tags))
	for _, tag := range tags {
		out = append(out, gonostr.Tag(tag))
	}
	return out
}

func fromEvent(ev gonostr.Event) *entities.SignedEvent {
	tags := make([][]string, 0, len(ev.Tags))
	for _, tag := range ev.Tags {
		tags = append(tags, []string(tag))
	}

	return &entities.SignedEvent{
		ID:        ev.ID,
		PubKey:    ev.PubKey,
		Kind:      ev.Kind,
		Content:   ev.Content,
		Tags:      tags,
		CreatedAt: ev.CreatedAt.Time(),
		Sig:       ev.Sig,
	}
}

func toEvent(ev *entities.SignedEvent) gonostr.Event {
	return gonostr.Event{
		ID:        ev.ID,
		PubKey:    ev.PubKey,
		Kind:      ev.Kind,
		Content:   ev.Content,
		Tags:      toTags(ev.Tags),
		CreatedAt: gonostr.Timestamp(ev.CreatedAt.Unix()),
		Sig:       ev.Sig,
	}
}
