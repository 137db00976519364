package domain

import "errors"

var (
	// ErrRejected is returned when an event's guard is not met. The session is
	// left untouched.
	ErrRejected = errors.New("event rejected")

	// ErrStale marks a timer continuation scheduled before a reset or eviction.
	ErrStale = errors.New("stale continuation")

	ErrInvalidAvatar = errors.New("unknown avatar")
	ErrInvalidDie    = errors.New("die value must be between 1 and 6")
	ErrUnknownOption = errors.New("unknown choice option")
	ErrOutOfRange    = errors.New("value out of range")
	ErrUnknownBlank  = errors.New("unknown quiz blank")
	ErrWrongAnswer   = errors.New("wrong answer")
	ErrBlankFilled   = errors.New("quiz blank already filled")
	ErrUnknownEvent  = errors.New("unknown event")

	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionForbidden   = errors.New("access to session forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExportFailed       = errors.New("certificate export failed")

	// ErrStoreUnavailable wraps a session store failure other than a missing
	// snapshot. The live session is not created from defaults in that case.
	ErrStoreUnavailable = errors.New("session store unavailable")
)
