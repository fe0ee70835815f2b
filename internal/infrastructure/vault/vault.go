// Package vault persists the session's credential and identity slots.
//
// Every implementation honours the same contract: the two slots are written
// together and cleared together, and anything corrupt or half-present reads
// back as absence rather than an error. The stored session is optimistic
// either way; a stale credential is corrected by the first 401.
package vault

import (
	"github.com/Bingusala/rosy-glow/internal/core/domain"
)

// document is the serialized form shared by the file and redis backends.
type document struct {
	Credential domain.Credential `json:"credential"`
	Identity   *domain.Identity  `json:"identity"`
}

// usable reports whether the document holds a complete session: both slots
// present and non-empty. A mismatch is the corrupt-partial state the
// contract collapses to absence.
func (d document) usable() bool {
	return !d.Credential.Empty() && d.Identity != nil && d.Identity.Username != ""
}
