package gateway

import (
	"github.com/pkg/errors"

	"github.com/truyenhub/truyenhub/docstore"
)

var (
	// ErrNotFound means the requested document is absent.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidArgument means the caller passed something unusable and
	// no remote call was made.
	ErrInvalidArgument = errors.New("invalid argument")
)

// RemoteError is a transport or server-side failure. The gateway never
// retries; that is the caller's call.
type RemoteError struct {
	Message string
	Code    string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

func normalizeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return &RemoteError{Message: err.Error()}
}
