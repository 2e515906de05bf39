package model

import "encoding/json"

type WSEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type WSAnnounce struct {
	Message string `json:"message"`
}

// WSDraftsAdded is the payload of a "drafts:add" event pushed to the
// owner's other sessions after a batch is created.
type WSDraftsAdded struct {
	Drafts []*DraftOut `json:"drafts"`
}
