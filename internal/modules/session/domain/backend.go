package domain

import "fmt"

// Backend names one of the two local storage backends. The set is closed and
// chosen once at startup.
type Backend string

const (
	BackendExtension Backend = "extension"
	BackendPage      Backend = "page"
)

func (b Backend) Validate() error {
	switch b {
	case BackendExtension, BackendPage:
		return nil
	default:
		return fmt.Errorf("unsupported backend %q", string(b))
	}
}

// Storage keys shared by both backends.
const (
	KeySessions = "gmat_study_sessions"
	KeyStreak   = "gmat_study_streak"
	KeySettings = "gmat_study_settings"
)
