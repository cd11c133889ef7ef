package engine

import (
	"context"
	"strings"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

const webIDPrefix = "user_"

// SyncTasksBetweenUsers copies every source task the target does not already
// have, matched by (title, status). Parent links are dropped on the copy: the
// target receives a flat list. Duplicate source titles with the same status
// collapse into a single target row. Returns false when either user is
// unknown.
func (s *Service) SyncTasksBetweenUsers(ctx context.Context, sourceExternalID, targetExternalID string) (bool, error) {
	source, err := s.LookupUser(ctx, sourceExternalID)
	if err != nil {
		return false, err
	}
	target, err := s.LookupUser(ctx, targetExternalID)
	if err != nil {
		return false, err
	}
	if source == nil || target == nil {
		return false, nil
	}

	if _, err := s.tasks.CopyMissing(ctx, source.ID, target.ID); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureUserSync links the chat identity max_<id> with the web identity
// user_<slug>. When both accounts exist and are distinct, tasks are synced in
// both directions. The web identifier is returned either way so callers can
// address the web account.
func (s *Service) EnsureUserSync(ctx context.Context, maxUserID, username string) (string, error) {
	maxExternalID := maxIDPrefix + maxUserID
	webExternalID := webIDPrefix + slugify(username)

	maxUser, err := s.users.GetByExternalID(ctx, maxExternalID)
	if err != nil {
		return "", err
	}
	webUser, err := s.users.GetByExternalID(ctx, webExternalID)
	if err != nil {
		return "", err
	}

	if maxUser != nil && webUser != nil && maxUser.ID != webUser.ID {
		if _, err := s.SyncTasksBetweenUsers(ctx, maxExternalID, webExternalID); err != nil {
			return "", err
		}
		if _, err := s.SyncTasksBetweenUsers(ctx, webExternalID, maxExternalID); err != nil {
			return "", err
		}
	}
	return webExternalID, nil
}

// MaxProfile is the subset of the chat platform's user object we care about.
type MaxProfile struct {
	FirstName string
	LastName  string
	Username  string
}

// SyncUserFromMax refreshes the display name from the chat profile. No-op on
// an empty profile.
func (s *Service) SyncUserFromMax(ctx context.Context, externalID string, profile *MaxProfile) (*storage.User, error) {
	if profile == nil {
		return nil, nil
	}
	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if name == "" {
		name = profile.Username
	}
	if name == "" {
		name = "MAX user"
	}
	return s.UpdateUserProfile(ctx, externalID, ProfileUpdate{Name: &name})
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
