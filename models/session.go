package models

// SessionTTLSeconds is the sliding expiry applied to both session keys on
// every create and refresh: 7 days.
const SessionTTLSeconds = 604800

// SessionKeyPrefix prefixes every session cache key.
const SessionKeyPrefix = "session:"

// SessionProfile is the minimal profile snapshot embedded in a session.
type SessionProfile struct {
	ProfileID   string `json:"profileId"`
	IsActive    bool   `json:"isActive"`
	IsCallable  bool   `json:"isCallable"`
	IsOnboarded bool   `json:"isOnboarded"`
}

// Session is the authenticated state stored at session:<id>. The role list
// is additionally mirrored at session:<id>:roles; both keys always share the
// same expiry.
type Session struct {
	SessionID        string         `json:"sessionId"`
	UserID           string         `json:"userId"`
	ProfileID        string         `json:"profileId"`
	Language         string         `json:"language,omitempty"`
	Roles            []string       `json:"roles"`
	HasActiveProfile bool           `json:"hasActiveProfile"`
	Profile          SessionProfile `json:"profile"`
}

// SessionKey returns the cache key holding the serialized session payload.
func SessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

// SessionRolesKey returns the cache key holding the serialized role list.
func SessionRolesKey(sessionID string) string {
	return SessionKeyPrefix + sessionID + ":roles"
}
