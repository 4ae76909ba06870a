package tracking

import "errors"

var (
	// ErrSubscription means the OS refused to let this process observe global input.
	ErrSubscription = errors.New("global mouse hook could not be installed")

	// ErrDisplay means the window system connection the hook needs is unavailable.
	ErrDisplay = errors.New("display connection could not be acquired")
)

// Remediation returns the hint printed next to a fatal start-up error.
func Remediation(err error) string {
	switch {
	case errors.Is(err, ErrDisplay):
		return "make sure an X server is running and DISPLAY points at it"
	case errors.Is(err, ErrSubscription):
		return subscriptionHint
	default:
		return ""
	}
}
