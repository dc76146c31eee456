package entities

import (
	"time"
)

// Event kinds used by the relay network
const (
	KindProfileMetadata = 0
	KindTextNote        = 1
)

// Event is an unsigned relay event
type Event struct {
	Kind      int
	Content   string
	Tags      [][]string
	CreatedAt time.Time
}

// SignedEvent is an event signed under an identity's private key
type SignedEvent struct {
	ID        string
	PubKey    string
	Kind      int
	Content   string
	Tags      [][]string
	CreatedAt time.Time
	Sig       string
}

// Profile is the kind-0 metadata document of an identity
type Profile struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Banner      string `json:"banner,omitempty"`
	About       string `json:"about,omitempty"`
	NIP05       string `json:"nip05,omitempty"`
	LUD16       string `json:"lud16,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Result describes a completed publish
type Result struct {
	EventID         string
	PublicKey       string
	CreatedAt       time.Time
	ConnectedRelays int
}
