package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Crimson25/zulip/internal/model"
)

var ErrNoRecipients = errors.New("no message recipients")

// HuddleStore looks up and creates group recipients. The hash identifies
// the member set; memberIDs must be the full member list.
type HuddleStore interface {
	GetOrCreateHuddle(ctx context.Context, hash string, memberIDs []int64) (*model.Recipient, error)
	MembersByRecipient(ctx context.Context, recipientID int64) ([]int64, error)
}

type RecipientService struct {
	huddles HuddleStore
}

func NewRecipientService(huddles HuddleStore) *RecipientService {
	return &RecipientService{huddles: huddles}
}

// ForUsers derives the recipient for a private conversation between the
// sender and the target users. A conversation with a single other party (or
// with the sender alone) uses that party's personal recipient; anything
// larger uses the group recipient over targets plus sender.
func (s *RecipientService) ForUsers(ctx context.Context, targets []*model.UserProfile, sender *model.UserProfile) (*model.Recipient, error) {
	if len(targets) == 0 {
		return nil, ErrNoRecipients
	}

	var others []*model.UserProfile
	seen := make(map[int64]bool, len(targets))
	for _, u := range targets {
		if u.ID == sender.ID || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		others = append(others, u)
	}

	switch len(others) {
	case 0:
		// Message to self.
		return personalRecipient(sender), nil
	case 1:
		return personalRecipient(others[0]), nil
	}

	memberIDs := make([]int64, 0, len(others)+1)
	for _, u := range others {
		memberIDs = append(memberIDs, u.ID)
	}
	memberIDs = append(memberIDs, sender.ID)
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })

	return s.huddles.GetOrCreateHuddle(ctx, huddleHash(memberIDs), memberIDs)
}

func (s *RecipientService) MembersByRecipient(ctx context.Context, recipientID int64) ([]int64, error) {
	return s.huddles.MembersByRecipient(ctx, recipientID)
}

func personalRecipient(u *model.UserProfile) *model.Recipient {
	return &model.Recipient{
		ID:     u.RecipientID,
		Type:   model.RecipientPersonal,
		TypeID: u.ID,
	}
}

// huddleHash keys a group conversation by its sorted member IDs, so the
// same set of people always maps to the same huddle row.
func huddleHash(sortedIDs []int64) string {
	parts := make([]string, len(sortedIDs))
	for i, id := range sortedIDs {
		parts[i] = fmt.Sprintf("%d", id)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:])
}
