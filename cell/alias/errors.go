package alias

import "errors"

var (
	// ErrUnknownPolicy indicates a policy keyword that ParsePolicy does not know.
	ErrUnknownPolicy = errors.New("alias: unknown policy keyword")
	// ErrUnknownMode indicates a mode string other than "input" or "output".
	ErrUnknownMode = errors.New("alias: unknown mode")
	// ErrConflictingCase indicates both ToLower and ToUpper were requested.
	ErrConflictingCase = errors.New("alias: lower and upper case policies are exclusive")
)
