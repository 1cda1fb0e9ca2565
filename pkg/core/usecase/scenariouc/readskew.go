// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scenariouc

import (
	"context"

	"github.com/momeni/isolation-levels/pkg/core/model"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// The non-repeatable reads fixture is one user with two accounts
// holding 500 units each, reseeded before each case.
const (
	readSkewUserID   = 1
	readSkewAccount1 = 1
	readSkewAccount2 = 2
	readSkewBalance  = 500
	readSkewAmount   = 100
)

// ReadSkewCase parameterizes one run of the non-repeatable reads
// scenario. A reader sums the two account balances with a two-unit
// pause between the reads, while a concurrent transfer commits inside
// that pause. Whether the reader observes the conserved total or a
// part-way state depends on its isolation mode alone.
type ReadSkewCase struct {
	// Isolation is the mode which the reader uses. The transferring
	// writer always runs at READ COMMITTED.
	Isolation model.Isolation `json:"isolation"`

	// Sum is the total balance which the reader is expected to report.
	Sum int64 `json:"sum"`
}

// ReadSkewCases tabulates the expected reported sum per reader
// isolation mode, for the fixture of two accounts seeded with 500
// units each and a concurrent 100 unit transfer. READ COMMITTED takes
// a fresh snapshot per statement, so the reader observes one balance
// from before the transfer and the other from after it. REPEATABLE
// READ and SERIALIZABLE pin the whole transaction to the snapshot
// which predates the transfer.
var ReadSkewCases = []ReadSkewCase{
	{Isolation: model.ReadCommitted, Sum: 900},
	{Isolation: model.RepeatableRead, Sum: 1000},
	{Isolation: model.Serializable, Sum: 1000},
}

// ReadSkewOutcome is the observed result of one non-repeatable reads
// scenario run.
type ReadSkewOutcome struct {
	Sum                  int64 `json:"sum"`
	SerializationFailure bool  `json:"serialization_failure"`
}

// ReadSkew reseeds the accounts fixture and runs one non-repeatable
// reads case: the reader opens a transaction at the case isolation
// mode, reads the first account balance, sleeps two delay units,
// reads the second account balance, and reports their sum. The writer
// sleeps one unit and then transfers 100 units from the second
// account into the first one at READ COMMITTED, committing between
// the two reads. The transfer debits the account which is read last,
// so a reader without a stable snapshot observes a total which
// undershoots the conserved sum.
func (uc *UseCase) ReadSkew(
	ctx context.Context, c ReadSkewCase,
) (*ReadSkewOutcome, error) {
	err := uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return uc.accounts.Conn(conn).Reset(
			ctx,
			model.User{ID: readSkewUserID, Name: "alice"},
			[]model.Account{
				{
					ID:      readSkewAccount1,
					UserID:  readSkewUserID,
					Balance: readSkewBalance,
				},
				{
					ID:      readSkewAccount2,
					UserID:  readSkewUserID,
					Balance: readSkewBalance,
				},
			},
		)
	})
	if err != nil {
		return nil, err
	}
	var sum int64
	reader := func(ctx context.Context, conn repo.Conn) error {
		return conn.IsoTx(
			ctx, c.Isolation,
			func(ctx context.Context, tx repo.Tx) error {
				q := uc.accounts.Tx(tx)
				b1, err := q.Balance(ctx, readSkewAccount1)
				if err != nil {
					return err
				}
				uc.sleep(2 * uc.unit)
				b2, err := q.Balance(ctx, readSkewAccount2)
				if err != nil {
					return err
				}
				sum = b1 + b2
				return nil
			},
		)
	}
	writer := func(ctx context.Context, conn repo.Conn) error {
		uc.sleep(uc.unit)
		return conn.IsoTx(
			ctx, model.ReadCommitted,
			func(ctx context.Context, tx repo.Tx) error {
				return uc.accounts.Tx(tx).Transfer(
					ctx,
					readSkewAccount2, readSkewAccount1, readSkewAmount,
				)
			},
		)
	}
	serialization, err := uc.runActors(ctx, reader, writer)
	if err != nil {
		return nil, err
	}
	return &ReadSkewOutcome{
		Sum:                  sum,
		SerializationFailure: serialization,
	}, nil
}
