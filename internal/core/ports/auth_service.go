package ports

import "context"

type AuthService interface {
	// IssuePlayerToken returns a token scoped to one session.
	IssuePlayerToken(sessionID string) (string, error)
	// TeacherLogin checks the classroom password and returns a teacher token.
	TeacherLogin(ctx context.Context, password string) (string, error)
}
