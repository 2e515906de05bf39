package model

// Stream is a channel within a realm. Invite-only streams are visible to
// subscribers only; RecipientID is the stream's recipient row.
type Stream struct {
	ID          int64  `json:"id"`
	RealmID     int64  `json:"realm_id"`
	Name        string `json:"name"`
	InviteOnly  bool   `json:"invite_only"`
	RecipientID int64  `json:"-"`
}
