package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Crimson25/zulip/internal/model"
)

// User-facing validation errors. The handler returns their text verbatim.
var (
	ErrContentContainsNull = errors.New("Content must not contain null bytes")
	ErrTopicContainsNull   = errors.New("Topic must not contain null bytes")
	ErrNegativeTimestamp   = errors.New("Timestamp must not be negative.")
	ErrStreamCardinality   = errors.New("Must specify exactly 1 stream ID for stream messages")
	ErrInvalidStreamID     = errors.New("Invalid stream id")
)

// Truncation markers appended when content or topic exceeds the realm limit.
const (
	contentTruncationMarker = "\n[message truncated]"
	topicTruncationMarker   = "..."
)

type StreamResolver interface {
	Resolve(ctx context.Context, user *model.UserProfile, streamID int64) (*model.Stream, *model.Recipient, error)
}

type UserDirectory interface {
	ProfilesByIDs(ctx context.Context, realmID int64, ids []int64) ([]*model.UserProfile, error)
}

type RecipientResolver interface {
	ForUsers(ctx context.Context, targets []*model.UserProfile, sender *model.UserProfile) (*model.Recipient, error)
	MembersByRecipient(ctx context.Context, recipientID int64) ([]int64, error)
}

type DraftStore interface {
	CreateBatch(ctx context.Context, drafts []*model.Draft) ([]int64, error)
	ListByOwner(ctx context.Context, userID int64) ([]*model.Draft, error)
}

// DraftService normalizes structurally-valid draft inputs and persists them
// as all-or-nothing batches.
type DraftService struct {
	streams    StreamResolver
	users      UserDirectory
	recipients RecipientResolver
	drafts     DraftStore
	limits     model.MessageLimits
	now        func() time.Time
}

func NewDraftService(streams StreamResolver, users UserDirectory, recipients RecipientResolver, drafts DraftStore, limits model.MessageLimits) *DraftService {
	return &DraftService{
		streams:    streams,
		users:      users,
		recipients: recipients,
		drafts:     drafts,
		limits:     limits,
		now:        time.Now,
	}
}

// draftKind classifies a draft input for recipient resolution.
type draftKind int

const (
	kindStream draftKind = iota
	kindPrivateWithRecipients
	kindPrivateOrEmpty
)

func classify(in model.DraftInput) draftKind {
	switch {
	case in.Type == "stream":
		return kindStream
	case in.Type == "private" && len(in.To) != 0:
		return kindPrivateWithRecipients
	default:
		return kindPrivateOrEmpty
	}
}

// CreateBatch normalizes every input in order, then writes them all in one
// transaction. The first normalization error aborts the batch before
// anything touches the store; the returned drafts carry their new IDs.
func (s *DraftService) CreateBatch(ctx context.Context, user *model.UserProfile, inputs []model.DraftInput) ([]*model.Draft, error) {
	drafts := make([]*model.Draft, 0, len(inputs))
	for _, in := range inputs {
		d, err := s.normalize(ctx, user, in)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}

	ids, err := s.drafts.CreateBatch(ctx, drafts)
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		drafts[i].ID = id
	}
	return drafts, nil
}

// normalize sanitizes one draft input and resolves its recipient.
func (s *DraftService) normalize(ctx context.Context, user *model.UserProfile, in model.DraftInput) (*model.Draft, error) {
	content := truncateText(in.Content, s.limits.MaxMessageLength, contentTruncationMarker)
	if strings.ContainsRune(content, '\x00') {
		return nil, ErrContentContainsNull
	}

	ts := unixSeconds(s.now())
	if in.Timestamp != nil {
		ts = *in.Timestamp
	}
	ts = round6(ts)
	if ts < 0 {
		return nil, ErrNegativeTimestamp
	}
	lastEditTime := time.Unix(0, int64(math.Round(ts*1e6))*1000).UTC()

	topic := ""
	var recipient *model.Recipient

	switch classify(in) {
	case kindStream:
		topic = truncateText(in.Topic, s.limits.MaxTopicLength, topicTruncationMarker)
		if strings.ContainsRune(topic, '\x00') {
			return nil, ErrTopicContainsNull
		}
		if len(in.To) != 1 {
			return nil, ErrStreamCardinality
		}
		_, rec, err := s.streams.Resolve(ctx, user, in.To[0])
		if err != nil {
			// Nonexistent and inaccessible streams look identical to
			// the caller.
			if errors.Is(err, ErrStreamNotFound) || errors.Is(err, ErrStreamAccessDenied) {
				return nil, ErrInvalidStreamID
			}
			return nil, err
		}
		recipient = rec

	case kindPrivateWithRecipients:
		targets, err := s.users.ProfilesByIDs(ctx, user.RealmID, in.To)
		if err != nil {
			return nil, err
		}
		rec, err := s.recipients.ForUsers(ctx, targets, user)
		if err != nil {
			return nil, err
		}
		recipient = rec

	case kindPrivateOrEmpty:
		// Unaddressed draft: nil recipient, empty topic.
	}

	return &model.Draft{
		UserID:       user.ID,
		Recipient:    recipient,
		Topic:        topic,
		Content:      content,
		LastEditTime: lastEditTime,
	}, nil
}

// ListByOwner returns the user's drafts in last-edit order, rendered for
// the wire.
func (s *DraftService) ListByOwner(ctx context.Context, userID int64) ([]*model.DraftOut, error) {
	drafts, err := s.drafts.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	outs := make([]*model.DraftOut, 0, len(drafts))
	for _, d := range drafts {
		out, err := s.Render(ctx, d)
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return outs, nil
}

// Render derives the wire shape of a stored draft from its recipient.
func (s *DraftService) Render(ctx context.Context, d *model.Draft) (*model.DraftOut, error) {
	out := &model.DraftOut{
		ID:        d.ID,
		Type:      "",
		To:        []int64{},
		Topic:     d.Topic,
		Content:   d.Content,
		Timestamp: round6(float64(d.LastEditTime.UnixMicro()) / 1e6),
	}

	if d.Recipient == nil {
		return out, nil
	}

	switch d.Recipient.Type {
	case model.RecipientStream:
		out.Type = "stream"
		out.To = []int64{d.Recipient.TypeID}
	case model.RecipientPersonal:
		out.Type = "private"
		out.To = []int64{d.Recipient.TypeID}
	case model.RecipientGroup:
		out.Type = "private"
		members, err := s.recipients.MembersByRecipient(ctx, d.Recipient.ID)
		if err != nil {
			return nil, err
		}
		to := make([]int64, 0, len(members))
		for _, id := range members {
			if id != d.UserID {
				to = append(to, id)
			}
		}
		out.To = to
	}
	return out, nil
}

// truncateText caps s at maxLen runes, replacing the tail with marker when
// it overflows. Truncation, not rejection: overlong input is still valid.
func truncateText(s string, maxLen int, marker string) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-len([]rune(marker))]) + marker
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// round6 rounds Unix seconds to microsecond precision.
func round6(ts float64) float64 {
	return math.Round(ts*1e6) / 1e6
}
