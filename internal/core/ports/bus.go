package ports

// Bus is the notification channel between the synchronization core and
// whatever renders it. Publish must run subscribers synchronously: the
// gateway's invalidation ordering depends on subscribers having completed
// before the triggering error is returned.
type Bus interface {
	Publish(topic string, args ...any)
	Subscribe(topic string, fn any) error
	Unsubscribe(topic string, fn any) error
}

// AuthState is the read-only view of the session the cart store consults
// before fetching.
type AuthState interface {
	IsAuthenticated() bool
}
