// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Migrator is the core schema migration interface. The database schema
// is described by an ordered set of reversible steps, identified by
// consecutive integer versions starting from 1. Applied versions are
// recorded in the database itself, so each operation can find out the
// current version and apply or revert the missing steps one at a time,
// running each step and its bookkeeping in one transaction.
//
// Applying an already applied version is a no-op. Reverting a step
// whose dependent objects are missing fails loudly with the underlying
// DDL error, since that indicates an out-of-band schema manipulation.
type Migrator interface {
	// Latest returns the largest registered schema version.
	Latest() uint

	// Applied lists the applied schema versions in ascending order.
	Applied(ctx context.Context) ([]uint, error)

	// UpTo applies all unapplied steps with versions less than or
	// equal to the version argument, in ascending order.
	UpTo(ctx context.Context, version uint) error

	// DownTo reverts all applied steps with versions greater than the
	// version argument, in descending order. DownTo(ctx, 0) reverts
	// the whole schema.
	DownTo(ctx context.Context, version uint) error

	// DownOne reverts the most recently applied step, if any.
	DownOne(ctx context.Context) error
}
