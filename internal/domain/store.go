package domain

import "context"

// Store groups the repositories so multi-record writes can share a transaction.
type Store interface {
	Tasks() TaskRepository
	Users() UserRepository
	// Atomic runs fn against a Store whose writes commit or roll back together
	// when the backing store supports it; otherwise fn runs against s itself.
	Atomic(ctx context.Context, fn func(s Store) error) error
}
