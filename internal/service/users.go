package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Crimson25/zulip/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

// InvalidUserIDError reports the first ID in a recipient list that does not
// belong to an active user in the caller's realm. Its text goes back to API
// clients as-is.
type InvalidUserIDError struct {
	ID int64
}

func (e *InvalidUserIDError) Error() string {
	return fmt.Sprintf("Invalid user ID %d", e.ID)
}

// UserStore is the directory lookup surface the user service needs. A nil
// profile with nil error means no such user.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.UserProfile, error)
	GetByIDInRealm(ctx context.Context, id, realmID int64) (*model.UserProfile, error)
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) ByID(ctx context.Context, id int64) (*model.UserProfile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) ByIDInRealm(ctx context.Context, id, realmID int64) (*model.UserProfile, error) {
	u, err := s.users.GetByIDInRealm(ctx, id, realmID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ProfilesByIDs resolves a list of user IDs within a realm, dropping
// duplicates while keeping first-seen order. The first ID that does not map
// to an active user in the realm fails the whole lookup with
// InvalidUserIDError.
func (s *UserService) ProfilesByIDs(ctx context.Context, realmID int64, ids []int64) ([]*model.UserProfile, error) {
	seen := make(map[int64]bool, len(ids))
	profiles := make([]*model.UserProfile, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		u, err := s.users.GetByIDInRealm(ctx, id, realmID)
		if err != nil {
			return nil, err
		}
		if u == nil || !u.IsActive {
			return nil, &InvalidUserIDError{ID: id}
		}
		profiles = append(profiles, u)
	}
	return profiles, nil
}
