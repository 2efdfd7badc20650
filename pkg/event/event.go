package event

import "time"

type Kind string

const (
	KindOpen  Kind = "open"
	KindClose Kind = "close"
)

// Event is a single clock event. Generated marks events synthesized from a
// work template rather than recorded live, so callers can tell the two apart.
// Events are immutable once stored; the store only appends, or bulk-replaces
// a day when a template is applied with overwrite.
type Event struct {
	ID        int
	UID       string
	Time      time.Time
	Kind      Kind
	Generated bool
}

// ParseKind validates a wire-level kind string.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindOpen, KindClose:
		return Kind(s), true
	}
	return "", false
}
