package repo

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/model"
)

type DoctorsConnQueryer interface {
	DoctorsQueryer

	// Reset deletes all doctors rows and seeds the given fixture
	// again. Running it twice in a row yields the same rows.
	Reset(ctx context.Context, doctors []model.Doctor) error
}

type DoctorsTxQueryer interface {
	DoctorsQueryer
}

type DoctorsQueryer interface {
	// OnCallCount counts the on-call doctors of the shiftID shift.
	// If lock is true, the counted rows are locked with a
	// SELECT ... FOR UPDATE clause until the end of the ongoing
	// transaction.
	OnCallCount(ctx context.Context, shiftID int64, lock bool) (int64, error)

	// SetOnCall updates the on_call flag of the name doctor.
	SetOnCall(ctx context.Context, name string, onCall bool) error
}

type Doctors interface {
	Conn(Conn) DoctorsConnQueryer
	Tx(Tx) DoctorsTxQueryer
}
