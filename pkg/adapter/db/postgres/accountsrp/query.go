package accountsrp

import (
	"context"
	"fmt"

	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/core/model"
	"gorm.io/gorm"
)

type gUser struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (gu *gUser) TableName() string {
	return "users"
}

type gAccount struct {
	ID      int64 `gorm:"primaryKey"`
	UserID  int64
	Balance int64
}

func (ga *gAccount) TableName() string {
	return "accounts"
}

// Reset deletes all users and accounts rows and seeds the given
// fixture with its fixed primary keys again, so scenarios always
// start from the same known row set.
func Reset[Q postgres.Queryer](ctx context.Context, q Q, u model.User, accounts []model.Account) error {
	gdb := q.GORM(ctx)
	if err := gdb.Exec("DELETE FROM accounts").Error; err != nil {
		return fmt.Errorf("deleting accounts: %w", err)
	}
	if err := gdb.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("deleting users: %w", err)
	}
	gu := &gUser{ID: u.ID, Name: u.Name}
	if err := gdb.Create(gu).Error; err != nil {
		return fmt.Errorf("seeding user: %w", err)
	}
	for _, a := range accounts {
		ga := &gAccount{ID: a.ID, UserID: a.UserID, Balance: a.Balance}
		if err := gdb.Create(ga).Error; err != nil {
			return fmt.Errorf("seeding account %d: %w", a.ID, err)
		}
	}
	return nil
}

// Balance reads the current balance of the accountID account.
func Balance[Q postgres.Queryer](ctx context.Context, q Q, accountID int64) (int64, error) {
	gdb := q.GORM(ctx)
	var ga gAccount
	if err := gdb.Where("id=?", accountID).Take(&ga).Error; err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return ga.Balance, nil
}

// Transfer debits the fromID account and credits the toID account by
// amount units using two separate UPDATE statements, so the transfer
// is only atomic if q is a transaction.
func Transfer[Q postgres.Queryer](ctx context.Context, q Q, fromID, toID, amount int64) error {
	if err := adjust(ctx, q, fromID, -amount); err != nil {
		return fmt.Errorf("debiting account %d: %w", fromID, err)
	}
	if err := adjust(ctx, q, toID, amount); err != nil {
		return fmt.Errorf("crediting account %d: %w", toID, err)
	}
	return nil
}

func adjust[Q postgres.Queryer](ctx context.Context, q Q, accountID, delta int64) error {
	gdb := q.GORM(ctx)
	tt := gdb.Model(&gAccount{}).Where("id=?", accountID).Update(
		"balance", gorm.Expr("balance + ?", delta),
	)
	if err := tt.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := tt.RowsAffected; n != 1 {
		return fmt.Errorf("expected one row, but got %d", n)
	}
	return nil
}
