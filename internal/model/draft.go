package model

import "time"

// MessageLimits carries the realm-level length limits applied to draft
// content and topics before persistence.
type MessageLimits struct {
	MaxMessageLength int
	MaxTopicLength   int
}

// DraftInput is one element of the drafts payload after structural
// validation. Timestamp is nil when the client did not send one.
type DraftInput struct {
	Type      string
	To        []int64
	Topic     string
	Content   string
	Timestamp *float64
}

// Draft is a stored message draft. Recipient is nil until the draft is
// addressed to a conversation; reads populate it from the recipients table.
type Draft struct {
	ID           int64
	UserID       int64
	Topic        string
	Content      string
	LastEditTime time.Time
	Recipient    *Recipient
}

// DraftOut is the API rendering of a stored draft. Type and To are derived
// from the recipient; Timestamp is Unix seconds at microsecond precision.
type DraftOut struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	To        []int64 `json:"to"`
	Topic     string  `json:"topic"`
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}
