package notify

// ErrUnknownNotifier is returned when a notifier is requested that
// has not been registered.
type ErrUnknownNotifier struct {
	attempted string
}

// NewErrUnknownNotifier returns a new error specialized to the
// attempted notifier.
func NewErrUnknownNotifier(s string) ErrUnknownNotifier {
	return ErrUnknownNotifier{s}
}

func (e ErrUnknownNotifier) Error() string {
	return "no notifier with name " + e.attempted + " exists"
}
