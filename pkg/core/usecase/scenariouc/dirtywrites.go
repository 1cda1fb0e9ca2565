// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scenariouc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/isolation-levels/pkg/core/model"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// The dirty writes fixture is one listing and its invoice with fixed
// identifiers, reseeded with nil buyer and recipient before each case.
var (
	dirtyWritesListingID = uuid.MustParse(
		"7c9a1b4e-52fd-43a8-9a6f-b9d2e0c3a901",
	)
	dirtyWritesInvoiceID = uuid.MustParse(
		"e3b6f7d2-8c14-4a5b-bd09-6f1e2a7c8d42",
	)
)

// DirtyWriteCase parameterizes one run of the dirty writes scenario.
// Two purchasers race to buy the same listing; Alice updates the
// listing first and its invoice two delay units later, while Bob
// starts one unit after Alice and updates both rows back to back,
// landing inside Alice's sleep window.
type DirtyWriteCase struct {
	// Isolation is the mode which both purchasers use.
	Isolation model.Isolation `json:"isolation"`

	// Buyer and Recipient are the expected final listing buyer and
	// invoice recipient values.
	Buyer     string `json:"buyer"`
	Recipient string `json:"recipient"`

	// SerializationFailure reports if some purchaser is expected to
	// observe a serialization conflict.
	SerializationFailure bool `json:"serialization_failure"`
}

// DirtyWriteCases tabulates the expected outcome of the dirty writes
// scenario per isolation mode. Without a transaction the two related
// rows end up recording different purchasers. READ COMMITTED blocks
// the second writer on the row lock until the first one commits, so
// both rows record the last writer. REPEATABLE READ and SERIALIZABLE
// abort the blocked writer instead, so both rows record the first one.
var DirtyWriteCases = []DirtyWriteCase{
	{
		Isolation: model.IsolationNone,
		Buyer:     "Bob",
		Recipient: "Alice",
	},
	{
		Isolation: model.ReadCommitted,
		Buyer:     "Bob",
		Recipient: "Bob",
	},
	{
		Isolation:            model.RepeatableRead,
		Buyer:                "Alice",
		Recipient:            "Alice",
		SerializationFailure: true,
	},
	{
		Isolation:            model.Serializable,
		Buyer:                "Alice",
		Recipient:            "Alice",
		SerializationFailure: true,
	},
}

// DirtyWriteOutcome is the observed final state of one dirty writes
// scenario run. Nil buyer or recipient values are reported as empty
// strings since every case writes both rows.
type DirtyWriteOutcome struct {
	Buyer                string `json:"buyer"`
	Recipient            string `json:"recipient"`
	SerializationFailure bool   `json:"serialization_failure"`
}

// DirtyWrites reseeds the listing fixture and runs one dirty writes
// case: the Alice purchaser starts immediately, sets the buyer,
// sleeps two delay units, and sets the recipient; the Bob purchaser
// starts after one unit and sets both values without a pause. Both
// use the case isolation mode, where the IsolationNone mode runs the
// statements outside of any transaction. The final (buyer, recipient)
// pair is read back after both purchasers have finished.
func (uc *UseCase) DirtyWrites(
	ctx context.Context, c DirtyWriteCase,
) (*DirtyWriteOutcome, error) {
	err := uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return uc.listings.Conn(conn).Reset(
			ctx,
			model.Listing{ID: dirtyWritesListingID},
			model.Invoice{
				ID:        dirtyWritesInvoiceID,
				ListingID: dirtyWritesListingID,
			},
		)
	})
	if err != nil {
		return nil, err
	}
	alice := uc.purchaser(c.Isolation, "Alice", 0, 2)
	bob := uc.purchaser(c.Isolation, "Bob", 1, 0)
	serialization, err := uc.runActors(ctx, alice, bob)
	if err != nil {
		return nil, err
	}
	out := &DirtyWriteOutcome{SerializationFailure: serialization}
	err = uc.pool.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		buyer, recipient, err := uc.listings.Conn(conn).PurchaseState(
			ctx, dirtyWritesListingID,
		)
		if err != nil {
			return err
		}
		if buyer != nil {
			out.Buyer = *buyer
		}
		if recipient != nil {
			out.Recipient = *recipient
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// purchaser creates an actor which waits startUnits delay units,
// then records name as the listing buyer, waits midUnits more units,
// and records name as the invoice recipient.
func (uc *UseCase) purchaser(
	iso model.Isolation, name string, startUnits, midUnits int,
) repo.ConnHandler {
	return func(ctx context.Context, conn repo.Conn) error {
		uc.sleep(time.Duration(startUnits) * uc.unit)
		buy := func(ctx context.Context, q repo.ListingsQueryer) error {
			err := q.SetBuyer(ctx, dirtyWritesListingID, name)
			if err != nil {
				return err
			}
			uc.sleep(time.Duration(midUnits) * uc.unit)
			return q.SetRecipient(ctx, dirtyWritesListingID, name)
		}
		if !iso.IsTransactional() {
			return buy(ctx, uc.listings.Conn(conn))
		}
		return conn.IsoTx(
			ctx, iso, func(ctx context.Context, tx repo.Tx) error {
				return buy(ctx, uc.listings.Tx(tx))
			},
		)
	}
}
