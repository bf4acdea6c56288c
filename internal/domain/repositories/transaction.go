package repositories

import "context"

// TxFn is the unit of work passed to ExecTx. Repositories called with the
// ctx it receives join the surrounding transaction.
type TxFn func(ctx context.Context) error

// TransactionManager groups repository writes that must land together,
// such as a structure save and the notes it orphans. Both storage drivers
// implement it; a nested ExecTx joins the outer transaction instead of
// opening a second one.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
