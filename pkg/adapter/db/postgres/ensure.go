// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrDatabaseRejected indicates that the target database does not
// exist and its creation was rejected by the confirmation callback.
var ErrDatabaseRejected = errors.New("database creation was not confirmed")

// EnsureDatabase checks that the database which is named in the url
// connection string exists, consulting the pg_database catalog over a
// maintenance connection to the standard postgres database of the
// same server. If it is absent, the confirm callback is asked with the
// database name and on its approval the database gets created; on its
// rejection ErrDatabaseRejected is returned.
// It returns true if the database was actually created by this call.
//
// The CREATE DATABASE statement cannot run in a transaction block and
// does not accept bound parameters, so the database name is quoted as
// an identifier instead. The name itself is taken from the trusted
// configuration file, not from end-users.
func EnsureDatabase(
	ctx context.Context, url string, confirm func(dbName string) bool,
) (created bool, err error) {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return false, fmt.Errorf("pgx.ParseConfig: %w", err)
	}
	dbName := cfg.Database
	cfg.Database = "postgres"
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("connecting to maintenance DB: %w", err)
	}
	defer func() {
		if err2 := conn.Close(ctx); err2 != nil && err == nil {
			err = fmt.Errorf("closing maintenance conn: %w", err2)
		}
	}()
	var exists bool
	err = conn.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_catalog.pg_database WHERE datname=$1)",
		dbName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("querying pg_database: %w", err)
	}
	if exists {
		return false, nil
	}
	if !confirm(dbName) {
		return false, ErrDatabaseRejected
	}
	_, err = conn.Exec(
		ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize(),
	)
	if err != nil {
		return false, fmt.Errorf("creating %q database: %w", dbName, err)
	}
	return true, nil
}
