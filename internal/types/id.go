// Package types holds small value types shared across modules.
package types

import "github.com/google/uuid"

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// IsValidID reports whether v parses as a UUID. Used at the HTTP edge so
// malformed ids fail before touching the store.
func IsValidID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}
