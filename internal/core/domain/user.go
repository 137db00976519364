package domain

const (
	RolePlayer  = "player"
	RoleTeacher = "teacher"
)

// Claims is the identity carried by an access token.
type Claims struct {
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
}

// CanAccess reports whether the holder may act on the given session.
func (c Claims) CanAccess(sessionID string) bool {
	switch c.Role {
	case RoleTeacher:
		return true
	case RolePlayer:
		return c.SessionID != "" && c.SessionID == sessionID
	}
	return false
}
