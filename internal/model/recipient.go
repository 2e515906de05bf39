package model

// Recipient type constants, stored in the recipients.type column.
const (
	RecipientPersonal = 1
	RecipientStream   = 2
	RecipientGroup    = 3
)

// Recipient is the conversation a message or draft is addressed to.
// TypeID points at a user, stream, or huddle row depending on Type.
type Recipient struct {
	ID     int64
	Type   int
	TypeID int64
}
