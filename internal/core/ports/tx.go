package ports

import "context"

// Transactor runs fn inside a single atomic transaction scope. Every store
// operation performed with the context passed to fn joins that transaction.
// If fn returns an error the transaction is aborted and nothing persists;
// otherwise it is committed. The returned error is fn's error unchanged, so
// conflict errors raised inside the transaction keep their kind.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
