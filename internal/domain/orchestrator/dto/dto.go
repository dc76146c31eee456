package dto

import "time"

// FetchedItem is a candidate item returned by the upstream fetcher
type FetchedItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Author string `json:"author"`
}

// ItemPublishedEvent represents the outcome of one publish attempt for Kafka message
type ItemPublishedEvent struct {
	ChannelKey string    `json:"channel_key"`
	Link       string    `json:"link"`
	Title      string    `json:"title"`
	EventID    string    `json:"event_id,omitempty"`
	PublicKey  string    `json:"public_key"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChannelReport summarizes one channel's cycle
type ChannelReport struct {
	ChannelKey string
	Published  int
	Failed     int
	Skipped    int
	Err        error
}

// CycleReport summarizes a poll cycle over all channels
type CycleReport struct {
	Channels       []ChannelReport
	Published      int
	Failed         int
	Skipped        int
	FailedChannels int
	Duration       time.Duration
}
