package thn

import "errors"

// Construction errors are returned from New and abort the cutscene.
// Per-event errors are recorded as diagnostics and the event is skipped.
var (
	ErrUnknownEntity         = errors.New("thn: unknown entity")
	ErrDuplicateEntity       = errors.New("thn: duplicate entity name")
	ErrMissingTemplate       = errors.New("thn: missing template")
	ErrDuplicateScene        = errors.New("thn: thn can only have one scene")
	ErrUnsupportedEntityKind = errors.New("thn: unsupported entity kind")
	ErrMalformedEvent        = errors.New("thn: malformed event")
	ErrWrongRole             = errors.New("thn: wrong entity role")
)
