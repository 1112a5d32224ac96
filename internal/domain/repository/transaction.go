package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// Use cases run every store interaction through Execute so related writes share one connection.
type TransactionManager interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error (or panics) the transaction is rolled back, otherwise it's committed.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the current transaction.
type RepositoryFactory interface {
	AccountRepo() AccountRepository
	FollowRepo() FollowRepository
	PostRepo() PostRepository
	CommentRepo() CommentRepository
}
