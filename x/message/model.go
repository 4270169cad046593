package message

import (
	"github.com/peregrinehq/inlet/core"
)

// Filter narrows and pages a message listing.
type Filter struct {
	Limit  int
	Offset int
	From   string // exact match on from_msisdn
	Since  string // inclusive lower bound on ts
	Search string // case-insensitive substring match on text
}

// SenderCount is one entry of the per-sender ranking.
type SenderCount struct {
	FromMsisdn string `json:"from_msisdn"`
	Count      int64  `json:"count"`
}

// Stats is the aggregate snapshot of the messages table.
type Stats struct {
	TotalMessages     int64
	SendersCount      int64
	MessagesPerSender []SenderCount
	FirstMessageTs    *string
	LastMessageTs     *string
}

type listResponse struct {
	Data   []core.Message `json:"data"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type statsResponse struct {
	TotalMessages     int64         `json:"total_messages"`
	SendersCount      int64         `json:"senders_count"`
	MessagesPerSender []SenderCount `json:"messages_per_sender"`
	FirstMessageTs    *string       `json:"first_message_ts"`
	LastMessageTs     *string       `json:"last_message_ts"`
}
