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

// The write skew fixture is exactly two on-call doctors sharing one
// shift, reseeded before each case.
const writeSkewShiftID = 1234

// WriteSkewCase parameterizes one run of the write skew scenario.
// Both doctors of the shift concurrently ask to go off call under the
// business rule that at least two doctors must currently be on call
// for one to leave. The rule is checked by each actor reading the
// on-call count before updating its own row, so whether it survives
// two concurrent leavers depends on the isolation mode and on the
// optional explicit row locking.
type WriteSkewCase struct {
	// Isolation is the mode which both doctors use.
	Isolation model.Isolation `json:"isolation"`

	// Lock asks the actors to read the on-call count with an explicit
	// SELECT ... FOR UPDATE row lock.
	Lock bool `json:"lock"`

	// OnCall is the expected number of doctors which stay on call.
	OnCall int64 `json:"on_call"`

	// SerializationFailure reports if some doctor is expected to
	// observe a serialization conflict.
	SerializationFailure bool `json:"serialization_failure"`
}

// WriteSkewCases tabulates the expected outcome of the write skew
// scenario per (isolation mode, locking) combination. Without
// locking, READ COMMITTED and REPEATABLE READ both let the two
// disjoint row updates pass and the shift is left unattended, while
// SERIALIZABLE detects the read-write conflict and aborts one doctor.
// With locking, READ COMMITTED serializes the two actors naturally,
// whereas REPEATABLE READ aborts the lock waiter since its locked
// rows changed after its snapshot was taken.
var WriteSkewCases = []WriteSkewCase{
	{
		Isolation: model.ReadCommitted,
		OnCall:    0,
	},
	{
		Isolation: model.RepeatableRead,
		OnCall:    0,
	},
	{
		Isolation:            model.Serializable,
		OnCall:               1,
		SerializationFailure: true,
	},
	{
		Isolation: model.ReadCommitted,
		Lock:      true,
		OnCall:    1,
	},
	{
		Isolation:            model.RepeatableRead,
		Lock:                 true,
		OnCall:               1,
		SerializationFailure: true,
	},
}

// WriteSkewOutcome is the observed final state of one write skew
// scenario run.
type WriteSkewOutcome struct {
	OnCall               int64 `json:"on_call"`
	SerializationFailure bool  `json:"serialization_failure"`
}

// WriteSkew reseeds the doctors fixture and runs one write skew case:
// the alice and bob doctors concurrently read the on-call count of
// their shared shift (locking the counted rows if the case asks for
// it), sleep one delay unit to force the reads to overlap, and go off
// call only if at least two doctors were on call at read time. The
// final on-call count is read back after both actors have finished.
func (uc *UseCase) WriteSkew(
	ctx context.Context, c WriteSkewCase,
) (*WriteSkewOutcome, error) {
	err := uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return uc.doctors.Conn(conn).Reset(ctx, []model.Doctor{
			{Name: "alice", ShiftID: writeSkewShiftID, OnCall: true},
			{Name: "bob", ShiftID: writeSkewShiftID, OnCall: true},
		})
	})
	if err != nil {
		return nil, err
	}
	serialization, err := uc.runActors(
		ctx, uc.leaver(c, "alice"), uc.leaver(c, "bob"),
	)
	if err != nil {
		return nil, err
	}
	out := &WriteSkewOutcome{SerializationFailure: serialization}
	err = uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		count, err := uc.doctors.Conn(conn).OnCallCount(
			ctx, writeSkewShiftID, false,
		)
		out.OnCall = count
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// leaver creates an actor which tries to take the name doctor off
// call, checking the at-least-two-on-call precondition at read time.
func (uc *UseCase) leaver(c WriteSkewCase, name string) repo.ConnHandler {
	return func(ctx context.Context, conn repo.Conn) error {
		return conn.IsoTx(
			ctx, c.Isolation,
			func(ctx context.Context, tx repo.Tx) error {
				q := uc.doctors.Tx(tx)
				count, err := q.OnCallCount(
					ctx, writeSkewShiftID, c.Lock,
				)
				if err != nil {
					return err
				}
				uc.sleep(uc.unit)
				if count < 2 {
					return nil
				}
				return q.SetOnCall(ctx, name, false)
			},
		)
	}
}
