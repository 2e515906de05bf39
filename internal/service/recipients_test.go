package service

import (
	"context"
	"testing"

	"github.com/Crimson25/zulip/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForUsersSelf(t *testing.T) {
	svc := NewRecipientService(newFakeHuddleStore())
	sender := testUser(senderID)

	rec, err := svc.ForUsers(context.Background(), []*model.UserProfile{sender}, sender)
	require.NoError(t, err)
	assert.Equal(t, model.RecipientPersonal, rec.Type)
	assert.Equal(t, senderID, rec.TypeID)
	assert.Equal(t, sender.RecipientID, rec.ID)
}

func TestForUsersTwoPartyCollapses(t *testing.T) {
	svc := NewRecipientService(newFakeHuddleStore())
	sender := testUser(senderID)
	hamlet := testUser(hamletID)

	// With or without the sender in the list, a two-party conversation
	// uses the other party's personal recipient.
	for _, targets := range [][]*model.UserProfile{
		{hamlet},
		{hamlet, sender},
		{sender, hamlet},
	} {
		rec, err := svc.ForUsers(context.Background(), targets, sender)
		require.NoError(t, err)
		assert.Equal(t, model.RecipientPersonal, rec.Type)
		assert.Equal(t, hamletID, rec.TypeID)
	}
}

func TestForUsersGroup(t *testing.T) {
	huddles := newFakeHuddleStore()
	svc := NewRecipientService(huddles)
	sender := testUser(senderID)
	hamlet := testUser(hamletID)
	othelia := testUser(otheliaID)

	rec, err := svc.ForUsers(context.Background(), []*model.UserProfile{hamlet, othelia}, sender)
	require.NoError(t, err)
	assert.Equal(t, model.RecipientGroup, rec.Type)

	members, err := svc.MembersByRecipient(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{senderID, hamletID, otheliaID}, members)
}

func TestForUsersGroupStableAcrossOrderAndDuplicates(t *testing.T) {
	svc := NewRecipientService(newFakeHuddleStore())
	sender := testUser(senderID)
	hamlet := testUser(hamletID)
	othelia := testUser(otheliaID)

	first, err := svc.ForUsers(context.Background(), []*model.UserProfile{hamlet, othelia}, sender)
	require.NoError(t, err)

	// Reordered and duplicated target lists map to the same huddle.
	for _, targets := range [][]*model.UserProfile{
		{othelia, hamlet},
		{hamlet, othelia, hamlet},
		{othelia, sender, hamlet},
	} {
		rec, err := svc.ForUsers(context.Background(), targets, sender)
		require.NoError(t, err)
		assert.Equal(t, first.ID, rec.ID)
	}
}

func TestForUsersNoTargets(t *testing.T) {
	svc := NewRecipientService(newFakeHuddleStore())

	_, err := svc.ForUsers(context.Background(), nil, testUser(senderID))
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestHuddleHash(t *testing.T) {
	a := huddleHash([]int64{1, 2, 3})
	b := huddleHash([]int64{1, 2, 3})
	c := huddleHash([]int64{1, 2, 4})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 40)
}
