package model

import "context"

// RemoteRegistry is the shared cross-device registry. It may be absent or
// unreachable at any time; callers probe Available before each call and treat
// any failure as a signal to fall back to the local store.
//
// All family reads and writes go through this interface as whole records.
// The registry performs no merge: a concurrent write to the same family is
// resolved last-writer-wins. Substituting a merging implementation requires
// no caller changes.
type RemoteRegistry interface {
	// ReadFamily resolves a join code to a family record. Returns ErrNotFound
	// when no record exists under the code.
	ReadFamily(ctx context.Context, code string) (FamilyProfile, error)
	// WriteFamily stores the whole family record under its join code,
	// replacing any existing record.
	WriteFamily(ctx context.Context, family FamilyProfile) error
	// WriteMessage stores a single chat message under the family's join code
	// and the message id.
	WriteMessage(ctx context.Context, code string, message ChatMessage) error
	// ReadMessages returns every stored message for the family's join code in
	// unspecified order.
	ReadMessages(ctx context.Context, code string) ([]ChatMessage, error)
	// Available reports whether the registry is reachable right now.
	Available(ctx context.Context) bool
}
