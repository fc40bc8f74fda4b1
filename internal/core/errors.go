package core

import "errors"

// Kind is the closed set of failure classes the core distinguishes.
// Transports map kinds to status codes; the core never retries.
type Kind int

const (
	KindValidation Kind = iota + 1 // malformed caller input, surfaced
	KindNotFound                   // requested data absent, surfaced
	KindStore                      // tabular store failure, surfaced
	KindClassifier                 // classifier failure, degraded internally
	KindConfig                     // missing or invalid configuration, fail fast
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	case KindClassifier:
		return "classifier"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error carries a failure kind plus the operation and collaborator it
// came from, wrapping the underlying cause.
type Error struct {
	Kind         Kind
	Op           string // e.g. "ingest", "budget_status"
	Collaborator string // e.g. "tabular", "classifier", "" for local failures
	Err          error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Collaborator != "" {
		msg += " (" + e.Collaborator + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and operation context.
func E(kind Kind, op, collaborator string, err error) error {
	return &Error{Kind: kind, Op: op, Collaborator: collaborator, Err: err}
}

// IsKind reports whether any error in err's chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}
