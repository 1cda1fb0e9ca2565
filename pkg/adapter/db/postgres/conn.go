package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/momeni/isolation-levels/pkg/core/model"
	"github.com/momeni/isolation-levels/pkg/core/repo"
	"gorm.io/gorm"
)

type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx runs f in a transaction at the DBMS default isolation level,
// which is READ COMMITTED for a stock PostgreSQL configuration.
func (c *Conn) Tx(ctx context.Context, f TxHandler) error {
	return c.beginTx(ctx, nil, f)
}

// IsoTx runs f in a transaction at the iso isolation mode.
// The iso argument must not be model.IsolationNone; statements which
// should run without a transaction belong on the Conn itself.
func (c *Conn) IsoTx(
	ctx context.Context, iso model.Isolation, f TxHandler,
) error {
	return c.beginTx(ctx, iso.TxOptions(), f)
}

func (c *Conn) beginTx(
	ctx context.Context, opts *sql.TxOptions, f TxHandler,
) (err error) {
	gdb := c.DB.WithContext(ctx)
	var tx *gorm.DB
	if opts != nil {
		tx = gdb.Begin(opts)
	} else {
		tx = gdb.Begin()
	}
	if err = tx.Error; err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = tx.Rollback().Error
			if err == nil {
				err = fmt.Errorf("panicked: %v", r)
				return
			}
			err = fmt.Errorf("panicked: %v, rollback: %w", r, err)
			return
		}
		if err != nil {
			if err2 := tx.Rollback().Error; err2 != nil {
				err = fmt.Errorf("handler: %w, rollback: %w", err, err2)
				return
			}
			err = fmt.Errorf("handler: %w", err)
			return
		}
		err = tx.Commit().Error
		if err != nil {
			err = fmt.Errorf("commit: %w", err)
		}
	}()
	tt := &Tx{DB: tx}
	return f(ctx, tt)
}

func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tt := c.DB.WithContext(ctx).Exec(sql, args...)
	if err := tt.Error; err != nil {
		return 0, err
	}
	return tt.RowsAffected, nil
}

func (c *Conn) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	rows, err := c.DB.WithContext(ctx).Raw(sql, args...).Rows()
	return rowsAdapter{rows}, err
}

func (c *Conn) IsConn() {
}

func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
