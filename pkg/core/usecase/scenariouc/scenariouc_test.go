// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scenariouc_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/isolation-levels/internal/test/dbcontainer"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/accountsrp"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/doctorsrp"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/listingsrp"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/migration"
	"github.com/momeni/isolation-levels/pkg/core/usecase/scenariouc"
	"github.com/stretchr/testify/suite"
)

// The documented interleavings are forced by sleep offsets alone, so
// these tests are timing-sensitive and may report a different outcome
// on a heavily loaded machine. The delay unit is stretched a bit above
// its default in order to widen the sleep windows.
const testDelayUnit = 200 * time.Millisecond

type IntegrationScenariosTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool

	uc *scenariouc.UseCase
}

func TestIntegrationScenariosTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationScenariosTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (ists *IntegrationScenariosTestSuite) SetupSuite() {
	mig := migration.New(ists.Pool)
	err := mig.UpTo(ists.Ctx, mig.Latest())
	ists.Require().NoError(err, "migrating up to the latest version")
	ists.uc, err = scenariouc.New(
		ists.Pool,
		accountsrp.New(), doctorsrp.New(), listingsrp.New(),
		scenariouc.WithDelayUnit(testDelayUnit),
	)
	ists.Require().NoError(err, "creating the scenario use case")
}

func (ists *IntegrationScenariosTestSuite) TestDirtyWrites() {
	for _, tc := range scenariouc.DirtyWriteCases {
		tc := tc
		ists.Run(tc.Isolation.String(), func() {
			out, err := ists.uc.DirtyWrites(ists.Ctx, tc)
			ists.Require().NoError(err)
			ists.Equal(tc.Buyer, out.Buyer)
			ists.Equal(tc.Recipient, out.Recipient)
			ists.Equal(
				tc.SerializationFailure, out.SerializationFailure,
			)
		})
	}
}

func (ists *IntegrationScenariosTestSuite) TestReadSkew() {
	for _, tc := range scenariouc.ReadSkewCases {
		tc := tc
		ists.Run(tc.Isolation.String(), func() {
			out, err := ists.uc.ReadSkew(ists.Ctx, tc)
			ists.Require().NoError(err)
			ists.Equal(tc.Sum, out.Sum)
			ists.False(
				out.SerializationFailure,
				"a read-only reader never conflicts with one transfer",
			)
		})
	}
}

func (ists *IntegrationScenariosTestSuite) TestWriteSkew() {
	for _, tc := range scenariouc.WriteSkewCases {
		tc := tc
		name := fmt.Sprintf("%v-lock=%v", tc.Isolation, tc.Lock)
		ists.Run(name, func() {
			out, err := ists.uc.WriteSkew(ists.Ctx, tc)
			ists.Require().NoError(err)
			ists.Equal(tc.OnCall, out.OnCall)
			ists.Equal(
				tc.SerializationFailure, out.SerializationFailure,
			)
		})
	}
}
