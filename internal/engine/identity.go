package engine

import (
	"context"
	"strings"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

const (
	// maxIDPrefix marks identifiers originating from the MAX chat channel.
	maxIDPrefix = "max_"
	// sentinelUser absorbs absent identifiers so demo traffic never touches
	// real accounts.
	sentinelUser = "demo_user"
)

// NormalizeExternalID canonicalizes a raw external identifier. Bare numeric
// ids are assumed to come from the chat channel and get the max_ prefix;
// anything already prefixed passes through; empty maps to the demo sentinel.
func NormalizeExternalID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sentinelUser
	}
	if isDigits(raw) && !strings.HasPrefix(raw, maxIDPrefix) {
		return maxIDPrefix + raw
	}
	return raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveUser returns the canonical user for an external identifier, creating
// the row on first sight. Idempotent.
func (s *Service) ResolveUser(ctx context.Context, externalID string, name *string) (*storage.User, error) {
	return s.users.GetOrCreate(ctx, NormalizeExternalID(externalID), name)
}

// LookupUser resolves without creating; nil when the user has never been seen.
func (s *Service) LookupUser(ctx context.Context, externalID string) (*storage.User, error) {
	return s.users.GetByExternalID(ctx, NormalizeExternalID(externalID))
}

// ProfileUpdate carries optional profile fields; nil leaves the stored value
// untouched.
type ProfileUpdate struct {
	Name   *string
	Energy *int
	Level  *int
}

func (s *Service) UpdateUserProfile(ctx context.Context, externalID string, upd ProfileUpdate) (*storage.User, error) {
	u, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	if upd.Name != nil {
		u.Name = upd.Name
	}
	if upd.Energy != nil {
		u.Energy = *upd.Energy
	}
	if upd.Level != nil {
		u.Level = *upd.Level
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
