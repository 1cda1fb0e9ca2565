package doctorsrp

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

func (doctors *Repo) Conn(c repo.Conn) repo.DoctorsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Reset(ctx context.Context, doctors []model.Doctor) error {
	return Reset(ctx, cq.Conn, doctors)
}

func (cq connQueryer) OnCallCount(ctx context.Context, shiftID int64, lock bool) (int64, error) {
	return OnCallCount(ctx, cq.Conn, shiftID, lock)
}

func (cq connQueryer) SetOnCall(ctx context.Context, name string, onCall bool) error {
	return SetOnCall(ctx, cq.Conn, name, onCall)
}

type txQueryer struct {
	*postgres.Tx
}

func (doctors *Repo) Tx(tx repo.Tx) repo.DoctorsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) OnCallCount(ctx context.Context, shiftID int64, lock bool) (int64, error) {
	return OnCallCount(ctx, tq.Tx, shiftID, lock)
}

func (tq txQueryer) SetOnCall(ctx context.Context, name string, onCall bool) error {
	return SetOnCall(ctx, tq.Tx, name, onCall)
}
