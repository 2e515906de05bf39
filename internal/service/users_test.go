package service

import (
	"context"
	"testing"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[int64]*model.UserProfile
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*model.UserProfile, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByIDInRealm(_ context.Context, id, realmID int64) (*model.UserProfile, error) {
	u := f.users[id]
	if u == nil || u.RealmID != realmID {
		return nil, nil
	}
	return u, nil
}

func TestProfilesByIDs(t *testing.T) {
	inactive := testUser(int64(4))
	inactive.IsActive = false
	svc := NewUserService(&fakeUserStore{users: map[int64]*model.UserProfile{
		senderID:  testUser(senderID),
		hamletID:  testUser(hamletID),
		otheliaID: testUser(otheliaID),
		4:         inactive,
	}})

	t.Run("dedupes keeping first-seen order", func(t *testing.T) {
		profiles, err := svc.ProfilesByIDs(context.Background(), realmID, []int64{otheliaID, hamletID, otheliaID})
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, otheliaID, profiles[0].ID)
		assert.Equal(t, hamletID, profiles[1].ID)
	})

	t.Run("unknown user fails with its ID", func(t *testing.T) {
		_, err := svc.ProfilesByIDs(context.Background(), realmID, []int64{hamletID, 404})
		assert.EqualError(t, err, "Invalid user ID 404")
	})

	t.Run("inactive user is invalid", func(t *testing.T) {
		_, err := svc.ProfilesByIDs(context.Background(), realmID, []int64{4})
		assert.EqualError(t, err, "Invalid user ID 4")
	})

	t.Run("other realm is invalid", func(t *testing.T) {
		_, err := svc.ProfilesByIDs(context.Background(), realmID+1, []int64{hamletID})
		assert.EqualError(t, err, "Invalid user ID 2")
	})
}

func TestByIDNotFound(t *testing.T) {
	svc := NewUserService(&fakeUserStore{users: map[int64]*model.UserProfile{}})
	_, err := svc.ByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
