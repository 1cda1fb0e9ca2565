package repo

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/model"
)

type AccountsConnQueryer interface {
	AccountsQueryer

	// Reset deletes all users and accounts rows and seeds the given
	// fixture again. Running it twice in a row yields the same rows.
	Reset(ctx context.Context, u model.User, accounts []model.Account) error
}

type AccountsTxQueryer interface {
	AccountsQueryer
}

type AccountsQueryer interface {
	// Balance reads the current balance of the accountID account.
	Balance(ctx context.Context, accountID int64) (int64, error)

	// Transfer moves amount units from the fromID account into the
	// toID account, debiting and crediting them by two separate
	// UPDATE statements.
	Transfer(ctx context.Context, fromID, toID, amount int64) error
}

type Accounts interface {
	Conn(Conn) AccountsConnQueryer
	Tx(Tx) AccountsTxQueryer
}
