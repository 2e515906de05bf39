package service

import (
	"context"
	"errors"

	"github.com/Crimson25/zulip/internal/model"
)

var (
	ErrStreamNotFound     = errors.New("stream not found")
	ErrStreamAccessDenied = errors.New("stream access denied")
)

// StreamStore is the lookup surface the stream service needs. A nil stream
// with nil error means no such stream in the realm.
type StreamStore interface {
	GetByIDInRealm(ctx context.Context, id, realmID int64) (*model.Stream, error)
	IsSubscribed(ctx context.Context, userID, recipientID int64) (bool, error)
}

type StreamService struct {
	streams StreamStore
}

func NewStreamService(streams StreamStore) *StreamService {
	return &StreamService{streams: streams}
}

// Resolve looks up a stream in the user's realm and checks that the user may
// address it. Public streams are open to every realm member; invite-only
// streams require an active subscription.
func (s *StreamService) Resolve(ctx context.Context, user *model.UserProfile, streamID int64) (*model.Stream, *model.Recipient, error) {
	stream, err := s.streams.GetByIDInRealm(ctx, streamID, user.RealmID)
	if err != nil {
		return nil, nil, err
	}
	if stream == nil {
		return nil, nil, ErrStreamNotFound
	}

	if stream.InviteOnly {
		subscribed, err := s.streams.IsSubscribed(ctx, user.ID, stream.RecipientID)
		if err != nil {
			return nil, nil, err
		}
		if !subscribed {
			return nil, nil, ErrStreamAccessDenied
		}
	}

	recipient := &model.Recipient{
		ID:     stream.RecipientID,
		Type:   model.RecipientStream,
		TypeID: stream.ID,
	}
	return stream, recipient, nil
}
