package accountsrp

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/core/model"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (accounts *Repo) Conn(c repo.Conn) repo.AccountsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Reset(ctx context.Context, u model.User, accounts []model.Account) error {
	return Reset(ctx, cq.Conn, u, accounts)
}

func (cq connQueryer) Balance(ctx context.Context, accountID int64) (int64, error) {
	return Balance(ctx, cq.Conn, accountID)
}

func (cq connQueryer) Transfer(ctx context.Context, fromID, toID, amount int64) error {
	return Transfer(ctx, cq.Conn, fromID, toID, amount)
}

type txQueryer struct {
	*postgres.Tx
}

func (accounts *Repo) Tx(tx repo.Tx) repo.AccountsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Balance(ctx context.Context, accountID int64) (int64, error) {
	return Balance(ctx, tq.Tx, accountID)
}

func (tq txQueryer) Transfer(ctx context.Context, fromID, toID, amount int64) error {
	return Transfer(ctx, tq.Tx, fromID, toID, amount)
}
