// Package core holds the persistent model and domain errors shared by the
// inlet packages.
package core

import (
	"time"
)

// Message is one ingested webhook event. The table is append-only: a row is
// created exactly once per message_id and never updated or deleted.
type Message struct {
	MessageID  string    `json:"message_id" gorm:"primaryKey;type:text"`
	FromMsisdn string    `json:"from_msisdn" gorm:"type:text;not null;index"`
	ToMsisdn   string    `json:"to_msisdn" gorm:"type:text;not null"`
	Ts         string    `json:"ts" gorm:"type:text;not null;index"`
	Text       *string   `json:"text" gorm:"type:text"`
	ReceivedAt time.Time `json:"-" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Message) TableName() string {
	return "messages"
}
