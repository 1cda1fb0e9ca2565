package doctorsrp

import (
	"context"
	"fmt"

	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gDoctor struct {
	Name    string `gorm:"primaryKey"`
	ShiftID int64
	OnCall  bool
}

func (gd *gDoctor) TableName() string {
	return "doctors"
}

// Reset deletes all doctors rows and seeds the given fixture again,
// so scenarios always start from the same known row set.
func Reset[Q postgres.Queryer](ctx context.Context, q Q, doctors []model.Doctor) error {
	gdb := q.GORM(ctx)
	if err := gdb.Exec("DELETE FROM doctors").Error; err != nil {
		return fmt.Errorf("deleting doctors: %w", err)
	}
	for _, d := range doctors {
		gd := &gDoctor{Name: d.Name, ShiftID: d.ShiftID, OnCall: d.OnCall}
		if err := gdb.Create(gd).Error; err != nil {
			return fmt.Errorf("seeding doctor %q: %w", d.Name, err)
		}
	}
	return nil
}

// OnCallCount counts the on-call doctors of the shiftID shift.
// With lock, the matching rows are fetched with a SELECT ... FOR
// UPDATE clause and stay locked until the surrounding transaction
// ends. The rows are fetched and counted in the client since
// PostgreSQL rejects FOR UPDATE combined with aggregate functions.
func OnCallCount[Q postgres.Queryer](ctx context.Context, q Q, shiftID int64, lock bool) (int64, error) {
	gdb := q.GORM(ctx)
	if lock {
		gdb = gdb.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var gd []gDoctor
	err := gdb.Where(
		"shift_id=? AND on_call=TRUE", shiftID,
	).Find(&gd).Error
	if err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	return int64(len(gd)), nil
}

// SetOnCall updates the on_call flag of the name doctor.
func SetOnCall[Q postgres.Queryer](ctx context.Context, q Q, name string, onCall bool) error {
	gdb := q.GORM(ctx)
	tt := gdb.Model(&gDoctor{}).Where("name=?", name).Update(
		"on_call", onCall,
	)
	if err := tt.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := tt.RowsAffected; n != 1 {
		return fmt.Errorf("expected one row, but got %d", n)
	}
	return nil
}
