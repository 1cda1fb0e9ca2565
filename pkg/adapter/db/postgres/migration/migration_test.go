// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration_test

import (
	"context"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/isolation-levels/internal/test/dbcontainer"
	"github.com/momeni/isolation-levels/internal/test/schema"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres/migration"
	"github.com/momeni/isolation-levels/pkg/core/cerr"
	"github.com/stretchr/testify/suite"
)

type IntegrationMigrationTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool

	mig *migration.Migrator
	sch *schema.Verifier
}

func TestIntegrationMigrationTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationMigrationTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func (imts *IntegrationMigrationTestSuite) SetupSuite() {
	imts.mig = migration.New(imts.Pool)
	imts.sch = schema.New(imts.Pool)
}

// SetupTest reverts the whole schema, so each test starts from an
// empty database.
func (imts *IntegrationMigrationTestSuite) SetupTest() {
	err := imts.mig.DownTo(imts.Ctx, 0)
	imts.Require().NoError(err, "reverting the whole schema")
}

func (imts *IntegrationMigrationTestSuite) TestEmptyDatabase() {
	imts.Equal(uint(3), imts.mig.Latest())
	vers, err := imts.mig.Applied(imts.Ctx)
	imts.Require().NoError(err)
	imts.Empty(vers, "no version is applied initially")
	imts.sch.VerifyVersion(imts.Ctx, imts.T(), 0)

	err = imts.mig.DownOne(imts.Ctx)
	imts.NoError(err, "DownOne over an empty schema is a no-op")
}

func (imts *IntegrationMigrationTestSuite) TestUpToLatest() {
	err := imts.mig.UpTo(imts.Ctx, imts.mig.Latest())
	imts.Require().NoError(err)
	vers, err := imts.mig.Applied(imts.Ctx)
	imts.Require().NoError(err)
	imts.Equal([]uint{1, 2, 3}, vers)
	imts.sch.VerifyVersion(imts.Ctx, imts.T(), 3)

	err = imts.mig.UpTo(imts.Ctx, imts.mig.Latest())
	imts.NoError(err, "a second migration run skips applied steps")
	vers, err = imts.mig.Applied(imts.Ctx)
	imts.Require().NoError(err)
	imts.Equal([]uint{1, 2, 3}, vers)
}

func (imts *IntegrationMigrationTestSuite) TestStepwise() {
	for v := uint(1); v <= imts.mig.Latest(); v++ {
		err := imts.mig.UpTo(imts.Ctx, v)
		imts.Require().NoError(err, "migrating up to version %d", v)
		imts.sch.VerifyVersion(imts.Ctx, imts.T(), v)
	}
	for v := imts.mig.Latest(); v > 0; v-- {
		err := imts.mig.DownOne(imts.Ctx)
		imts.Require().NoError(err, "reverting version %d", v)
		imts.sch.VerifyVersion(imts.Ctx, imts.T(), v-1)
	}
}

func (imts *IntegrationMigrationTestSuite) TestDownTo() {
	err := imts.mig.UpTo(imts.Ctx, imts.mig.Latest())
	imts.Require().NoError(err)
	err = imts.mig.DownTo(imts.Ctx, 1)
	imts.Require().NoError(err)
	vers, err := imts.mig.Applied(imts.Ctx)
	imts.Require().NoError(err)
	imts.Equal([]uint{1}, vers)
	imts.sch.VerifyVersion(imts.Ctx, imts.T(), 1)

	err = imts.mig.UpTo(imts.Ctx, imts.mig.Latest())
	imts.NoError(err, "reverted steps can be reapplied")
	imts.sch.VerifyVersion(imts.Ctx, imts.T(), 3)
}

func (imts *IntegrationMigrationTestSuite) TestUnknownVersions() {
	var uve *cerr.UnknownVersionError
	err := imts.mig.UpTo(imts.Ctx, 0)
	imts.ErrorAs(err, &uve, "version 0 cannot be migrated up to")
	err = imts.mig.UpTo(imts.Ctx, 9)
	if imts.ErrorAs(err, &uve) {
		imts.Equal(uint(9), uve.Version)
	}
	err = imts.mig.DownTo(imts.Ctx, 9)
	imts.ErrorAs(err, &uve, "unregistered rollback targets are rejected")

	vers, err := imts.mig.Applied(imts.Ctx)
	imts.Require().NoError(err)
	imts.Empty(vers, "rejected operations must not touch the schema")
}
