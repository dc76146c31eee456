package entities

import (
	"time"
)

// IngestedItem is one ledger entry; Link is the global dedup key
type IngestedItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChannelKey string    `gorm:"not null;size:255;index:idx_ingested_items_channel_key" json:"channelKey"`
	Title      string    `gorm:"not null;default:''" json:"title"`
	Link       string    `gorm:"not null;uniqueIndex:uq_ingested_items_link" json:"link"`
	Author     string    `gorm:"not null;default:''" json:"author"`
	Published  bool      `gorm:"not null;default:false" json:"published"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName returns the table name for IngestedItem
func (IngestedItem) TableName() string {
	return "ingested_items"
}
