package source

// ErrTransport wraps failures that happened while talking to the
// remote: network, authentication, or the remote itself.  Anything
// else that goes wrong is a local problem.
type ErrTransport struct {
	Op  string
	Err error
}

func (e *ErrTransport) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ErrTransport) Unwrap() error {
	return e.Err
}
