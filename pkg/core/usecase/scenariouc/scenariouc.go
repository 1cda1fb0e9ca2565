// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scenariouc contains the anomaly scenario use case. Each
// scenario reseeds its fixture rows, runs exactly two concurrent
// actors against the database with sleep-forced interleavings, and
// reports the observed final row state together with whether any
// actor hit the PostgreSQL serialization-conflict signal.
//
// The interleavings are forced by fixed sleep offsets alone, without
// any in-process synchronization between the actors, since such a
// synchronization would serialize the very accesses whose isolation
// behavior is under observation. This makes the scenarios inherently
// timing-sensitive; under heavy system load a case may observe an
// interleaving other than the documented one. The delay unit can be
// stretched to fit slower environments.
package scenariouc

import (
	"context"
	"time"

	"github.com/momeni/isolation-levels/pkg/core/cerr"
	"github.com/momeni/isolation-levels/pkg/core/log"
	"github.com/momeni/isolation-levels/pkg/core/repo"
)

// Sleeper suspends the calling actor for the given duration. It is
// injectable, so tests can replace the wall-clock sleeps if another
// timing environment is desired.
type Sleeper func(d time.Duration)

// UseCase represents the anomaly scenario use case. It holds a
// database connection pool, the three scenario repositories, and the
// delay strategy which forces the documented interleavings.
type UseCase struct {
	pool     repo.Pool
	accounts repo.Accounts
	doctors  repo.Doctors
	listings repo.Listings

	unit  time.Duration
	sleep Sleeper
}

// New instantiates a scenario use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	a repo.Accounts,
	d repo.Doctors,
	l repo.Listings,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, accounts: a, doctors: d, listings: l}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, err
		}
	}
	// now, deal with defaults
	if uc.unit == 0 {
		uc.unit = 100 * time.Millisecond
	}
	if uc.sleep == nil {
		uc.sleep = time.Sleep
	}
	return uc, nil
}

// runActors runs the first and second actor functions concurrently,
// each over its own dedicated connection, and waits for both of them
// to finish. A serialization conflict of either actor is recorded and
// reported as the serialization flag instead of an error, since some
// cases expect to observe it. Any other actor error is unexpected and
// is returned as a hard failure, after the other actor has completed
// and had its outcome recorded nevertheless.
func (uc *UseCase) runActors(
	ctx context.Context, first, second repo.ConnHandler,
) (serialization bool, err error) {
	errs := make(chan error, 2)
	for _, actor := range []repo.ConnHandler{first, second} {
		actor := actor
		go func() {
			errs <- uc.pool.Conn(ctx, actor)
		}()
	}
	for i := 0; i < 2; i++ {
		aerr := <-errs
		switch {
		case aerr == nil:
		case cerr.IsSerializationFailure(aerr):
			log.Debug(
				ctx, "actor observed a serialization conflict",
				log.Err("cause", aerr),
			)
			serialization = true
		case err == nil:
			err = aerr
		}
	}
	return serialization, err
}
