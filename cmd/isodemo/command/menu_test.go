// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMigrator records the migration operations which the menu loop
// dispatches, so the loop can be tested without a live database.
type fakeMigrator struct {
	calls   []string
	applied []uint
	err     error
}

func (f *fakeMigrator) Latest() uint {
	return 3
}

func (f *fakeMigrator) Applied(context.Context) ([]uint, error) {
	f.calls = append(f.calls, "applied")
	return f.applied, f.err
}

func (f *fakeMigrator) MigrateToLatest(context.Context) error {
	f.calls = append(f.calls, "migrate-latest")
	return f.err
}

func (f *fakeMigrator) MigrateTo(_ context.Context, v uint) error {
	f.calls = append(f.calls, "migrate-to-"+itoa(v))
	return f.err
}

func (f *fakeMigrator) RollbackOne(context.Context) error {
	f.calls = append(f.calls, "rollback-one")
	return f.err
}

func (f *fakeMigrator) RollbackTo(_ context.Context, v uint) error {
	f.calls = append(f.calls, "rollback-to-"+itoa(v))
	return f.err
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func menuRun(t *testing.T, uc migrator, input string) string {
	var out strings.Builder
	err := runMenu(
		context.Background(), uc,
		bufio.NewScanner(strings.NewReader(input)), &out,
	)
	require.NoError(t, err, "menu loop must not fail")
	return out.String()
}

func TestMenuActions(t *testing.T) {
	f := &fakeMigrator{applied: []uint{1, 2}}
	out := menuRun(t, f, `1
2
2
3
y
4
1
y
5
q
`)
	assert.Equal(t, []string{
		"migrate-latest",
		"migrate-to-2",
		"rollback-one",
		"rollback-to-1",
		"applied",
	}, f.calls)
	assert.Contains(t, out, "version 1 is applied")
	assert.Contains(t, out, "version 2 is applied")
	assert.Contains(t, out, "(latest is 3)")
}

func TestMenuRollbackNeedsConfirmation(t *testing.T) {
	f := &fakeMigrator{}
	out := menuRun(t, f, `3
n
4
2
whatever
q
`)
	assert.Empty(t, f.calls, "unconfirmed rollbacks must be skipped")
	assert.Contains(t, out, "skipped")
}

func TestMenuBadInput(t *testing.T) {
	f := &fakeMigrator{}
	out := menuRun(t, f, `7
2
twelve
q
`)
	assert.Empty(t, f.calls)
	assert.Contains(t, out, `unknown choice: "7"`)
	assert.Contains(t, out, "parsing version")
}

func TestMenuErrorsKeepLooping(t *testing.T) {
	f := &fakeMigrator{err: errors.New("db is down")}
	out := menuRun(t, f, `1
5
q
`)
	assert.Equal(t, []string{"migrate-latest", "applied"}, f.calls)
	assert.Contains(t, out, "error: db is down")
}

func TestMenuEOF(t *testing.T) {
	f := &fakeMigrator{}
	_ = menuRun(t, f, "")
	assert.Empty(t, f.calls, "EOF must terminate the loop quietly")
}
