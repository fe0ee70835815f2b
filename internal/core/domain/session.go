package domain

// SessionState is the lifecycle state of the client session.
//
// The machine is uninitialized → restoring → {authenticated | anonymous};
// after boot the two terminal states flip between each other directly via
// login, logout and gateway-forced invalidation, never back through
// restoring.
type SessionState string

const (
	SessionUninitialized SessionState = "uninitialized"
	SessionRestoring     SessionState = "restoring"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

// Session pairs the identity with its credential. The session is
// authenticated iff both halves are present and non-empty; any mismatch is
// treated as corrupt and collapses to anonymous.
type Session struct {
	State      SessionState
	Identity   *Identity
	Credential Credential
}

// Consistent reports whether identity and credential are either both
// present or both absent.
func (s Session) Consistent() bool {
	return (s.Identity != nil) == !s.Credential.Empty()
}
