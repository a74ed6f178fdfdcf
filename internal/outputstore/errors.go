package outputstore

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is; backends wrap them with the offending key or path.
var (
	// ErrValidation marks a malformed store context or constructor input.
	// It is a caller bug and is never worth retrying.
	ErrValidation = errors.New("invalid store context")

	// ErrConfig marks required per-backend metadata that is missing, such as
	// an explicit output path or a version. Also a caller bug.
	ErrConfig = errors.New("missing backend metadata")

	// ErrNotFound marks an absent read or exists target. It is routine: the
	// memoization cache-miss path is built on it.
	ErrNotFound = errors.New("output not found")

	// ErrDecode marks bytes that exist but cannot be decoded by the
	// configured codec, or a directory sitting at the output path.
	ErrDecode = errors.New("output unreadable")
)
