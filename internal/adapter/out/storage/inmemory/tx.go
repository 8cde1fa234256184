package inmemory

import "context"

// TxManager runs fn directly; each UserStorage call is already atomic.
type TxManager struct{}

func NewTxManager() TxManager {
	return TxManager{}
}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
