package repo

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/model"
)

type TxHandler func(context.Context, Tx) error

type Conn interface {
	Queryer

	// Tx opens a transaction at the DBMS default isolation level and
	// runs handler in it, committing on a nil error and rolling back
	// otherwise.
	Tx(ctx context.Context, handler TxHandler) error

	// IsoTx behaves like Tx, but begins the transaction at the given
	// isolation mode. The iso argument must be transactional, that is,
	// not the model.IsolationNone mode.
	IsoTx(ctx context.Context, iso model.Isolation, handler TxHandler) error

	IsConn()
}
