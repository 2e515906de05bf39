package service

import (
	"context"
	"testing"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStreamStore struct {
	streams     map[int64]*model.Stream
	subscribers map[int64]map[int64]bool // recipientID -> userID
}

func (f *fakeStreamStore) GetByIDInRealm(_ context.Context, id, realmID int64) (*model.Stream, error) {
	s := f.streams[id]
	if s == nil || s.RealmID != realmID {
		return nil, nil
	}
	return s, nil
}

func (f *fakeStreamStore) IsSubscribed(_ context.Context, userID, recipientID int64) (bool, error) {
	return f.subscribers[recipientID][userID], nil
}

func newFakeStreamStore() *fakeStreamStore {
	return &fakeStreamStore{
		streams: map[int64]*model.Stream{
			publicID: {ID: publicID, RealmID: realmID, Name: "Denmark", RecipientID: 205},
			secretID: {ID: secretID, RealmID: realmID, Name: "core team", InviteOnly: true, RecipientID: 206},
		},
		subscribers: map[int64]map[int64]bool{
			206: {senderID: true},
		},
	}
}

func TestStreamResolvePublic(t *testing.T) {
	svc := NewStreamService(newFakeStreamStore())

	// Public streams need no subscription.
	stream, rec, err := svc.Resolve(context.Background(), testUser(hamletID), publicID)
	require.NoError(t, err)
	assert.Equal(t, "Denmark", stream.Name)
	assert.Equal(t, model.RecipientStream, rec.Type)
	assert.Equal(t, publicID, rec.TypeID)
	assert.Equal(t, int64(205), rec.ID)
}

func TestStreamResolveInviteOnly(t *testing.T) {
	svc := NewStreamService(newFakeStreamStore())

	_, rec, err := svc.Resolve(context.Background(), testUser(senderID), secretID)
	require.NoError(t, err)
	assert.Equal(t, secretID, rec.TypeID)

	_, _, err = svc.Resolve(context.Background(), testUser(hamletID), secretID)
	assert.ErrorIs(t, err, ErrStreamAccessDenied)
}

func TestStreamResolveNotFound(t *testing.T) {
	svc := NewStreamService(newFakeStreamStore())

	_, _, err := svc.Resolve(context.Background(), testUser(senderID), 9999)
	assert.ErrorIs(t, err, ErrStreamNotFound)

	// A stream in another realm is invisible, not merely inaccessible.
	foreign := testUser(senderID)
	foreign.RealmID = realmID + 1
	_, _, err = svc.Resolve(context.Background(), foreign, publicID)
	assert.ErrorIs(t, err, ErrStreamNotFound)
}
