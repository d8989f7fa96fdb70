package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"amoria_server/models"
)

// SessionService manages authenticated sessions in the TTL cache. The session
// payload and its derived roles key always carry the same expiry: every
// mutation touches both keys in one atomic batch, so a half-written session
// is never observable.
type SessionService struct {
	Cache Cache
}

const sessionTTL = models.SessionTTLSeconds * time.Second

// GetOrCreate writes the session payload and roles under a fresh TTL and
// returns the data unchanged. It is a pure overwrite-and-extend: first login
// and refresh-with-new-data go through the same path.
func (s *SessionService) GetOrCreate(ctx context.Context, sessionID string, data models.Session) (models.Session, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return data, fmt.Errorf("failed to marshal session: %w", err)
	}
	roles, err := json.Marshal(data.Roles)
	if err != nil {
		return data, fmt.Errorf("failed to marshal session roles: %w", err)
	}

	err = s.Cache.Atomic(ctx, func(batch CacheBatch) {
		batch.Set(models.SessionKey(sessionID), payload, sessionTTL)
		batch.Set(models.SessionRolesKey(sessionID), roles, sessionTTL)
	})
	if err != nil {
		return data, fmt.Errorf("failed to store session %s: %w", sessionID, err)
	}
	return data, nil
}

// Get reads a session. Returns nil without error when the session does not
// exist. A payload that no longer parses is treated the same as an absent
// session: the caller re-authenticates instead of crashing on corruption.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	payload, err := s.Cache.Get(ctx, models.SessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}
	if payload == nil {
		return nil, nil
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		log.Printf("⚠️ Session %s holds a malformed payload, treating as absent: %v", sessionID, err)
		return nil, nil
	}
	if session.UserID == "" || session.ProfileID == "" {
		log.Printf("⚠️ Session %s fails schema validation, treating as absent", sessionID)
		return nil, nil
	}
	return &session, nil
}

// RefreshTTL re-applies the sliding window to both session keys without
// reading or rewriting their values.
func (s *SessionService) RefreshTTL(ctx context.Context, sessionID string) error {
	err := s.Cache.Atomic(ctx, func(batch CacheBatch) {
		batch.Expire(models.SessionKey(sessionID), sessionTTL)
		batch.Expire(models.SessionRolesKey(sessionID), sessionTTL)
	})
	if err != nil {
		return fmt.Errorf("failed to refresh session %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes both session keys. Deleting an absent session is a no-op.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	err := s.Cache.Atomic(ctx, func(batch CacheBatch) {
		batch.Del(models.SessionKey(sessionID), models.SessionRolesKey(sessionID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
