// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Isolation enumerates the transaction isolation modes which may be
// requested when running a scenario. The IsolationNone mode is special
// as it asks for no transaction at all, running each statement in its
// own auto-commit transaction. The other three modes correspond to the
// PostgreSQL READ COMMITTED, REPEATABLE READ, and SERIALIZABLE levels.
// The READ UNCOMMITTED level is not listed because PostgreSQL treats
// it exactly like READ COMMITTED. For details, read
// https://www.postgresql.org/docs/current/transaction-iso.html
type Isolation int

const (
	// IsolationNone asks for no explicit transaction.
	IsolationNone Isolation = iota

	// ReadCommitted is the PostgreSQL default isolation level. Each
	// statement observes a fresh snapshot of all transactions which
	// were committed before that statement began.
	ReadCommitted

	// RepeatableRead takes one snapshot at the first statement of the
	// transaction and keeps reading from it until commit or rollback.
	RepeatableRead

	// Serializable behaves like RepeatableRead, additionally aborting
	// transactions whenever their commit order cannot be reconciled
	// with some serial execution order.
	Serializable
)

// TxOptions converts this isolation mode into the corresponding
// database/sql transaction options. It panics if called on the
// IsolationNone mode because that mode indicates absence of any
// transaction and callers must check for it beforehand using the
// IsTransactional method.
func (iso Isolation) TxOptions() *sql.TxOptions {
	switch iso {
	case ReadCommitted:
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	case RepeatableRead:
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
	case Serializable:
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	panic(fmt.Sprintf("isolation mode %d has no TxOptions", int(iso)))
}

// IsTransactional reports if this isolation mode asks for an explicit
// transaction. Only the IsolationNone mode is non-transactional.
func (iso Isolation) IsTransactional() bool {
	return iso != IsolationNone
}

// String returns the human readable name of this isolation mode,
// matching the PostgreSQL level names where applicable.
func (iso Isolation) String() string {
	switch iso {
	case IsolationNone:
		return "none"
	case ReadCommitted:
		return "read-committed"
	case RepeatableRead:
		return "repeatable-read"
	case Serializable:
		return "serializable"
	}
	return fmt.Sprintf("isolation(%d)", int(iso))
}

// ParseIsolation converts the `s` name, as produced by the String
// method, back into an Isolation mode.
func ParseIsolation(s string) (Isolation, error) {
	switch s {
	case "none":
		return IsolationNone, nil
	case "read-committed":
		return ReadCommitted, nil
	case "repeatable-read":
		return RepeatableRead, nil
	case "serializable":
		return Serializable, nil
	}
	return 0, fmt.Errorf("unknown isolation mode: %q", s)
}

// LogValue implements slog.LogValuer, so an isolation mode can be
// logged by its name instead of its numeric value.
func (iso Isolation) LogValue() slog.Value {
	return slog.StringValue(iso.String())
}

// MarshalText implements encoding.TextMarshaler, serializing this
// isolation mode by its name (e.g., for the JSON scenario reports).
func (iso Isolation) MarshalText() ([]byte, error) {
	return []byte(iso.String()), nil
}
