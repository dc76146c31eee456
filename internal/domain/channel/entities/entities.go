package entities

import (
	"time"
)

// ChannelIdentity is the persistent signing identity of one tracked channel
type ChannelIdentity struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ChannelKey      string    `gorm:"not null;size:255;uniqueIndex:uq_channel_identities_channel_key" json:"channelKey"`
	DisplayName     string    `gorm:"not null;default:''" json:"displayName"`
	AvatarURL       string    `gorm:"not null;default:''" json:"avatarUrl"`
	PublicKey       string    `gorm:"not null;size:128" json:"publicKey"`
	PrivateKey      string    `gorm:"not null;size:128" json:"-"`
	RemoteChannelID string    `gorm:"not null;size:255;default:''" json:"remoteChannelId"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for ChannelIdentity
func (ChannelIdentity) TableName() string {
	return "channel_identities"
}

// NeedsBackfill reports whether lazily fetched profile fields are still missing
func (c *ChannelIdentity) NeedsBackfill() bool {
	return c.RemoteChannelID == "" || c.AvatarURL == ""
}

// ChannelProfile is the upstream metadata used to mint an identity
type ChannelProfile struct {
	RemoteChannelID string
	DisplayName     string
	AvatarURL       string
}

// KeyPair holds both keys in the network's canonical text encoding
type KeyPair struct {
	PublicKey  string
	PrivateKey string
}
