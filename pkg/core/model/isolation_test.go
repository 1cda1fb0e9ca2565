// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"database/sql"
	"testing"

	"github.com/momeni/isolation-levels/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestIsolationNames(t *testing.T) {
	for _, tc := range []struct {
		iso  model.Isolation
		name string
	}{
		{model.IsolationNone, "none"},
		{model.ReadCommitted, "read-committed"},
		{model.RepeatableRead, "repeatable-read"},
		{model.Serializable, "serializable"},
	} {
		assert.Equal(t, tc.name, tc.iso.String())
		iso, err := model.ParseIsolation(tc.name)
		if assert.NoError(t, err, "parsing %q", tc.name) {
			assert.Equal(t, tc.iso, iso)
		}
	}
	_, err := model.ParseIsolation("read uncommitted")
	assert.Error(t, err, "unknown names must be rejected")
}

func TestIsolationTxOptions(t *testing.T) {
	for iso, level := range map[model.Isolation]sql.IsolationLevel{
		model.ReadCommitted:  sql.LevelReadCommitted,
		model.RepeatableRead: sql.LevelRepeatableRead,
		model.Serializable:   sql.LevelSerializable,
	} {
		assert.True(t, iso.IsTransactional(), "%v", iso)
		opts := iso.TxOptions()
		if assert.NotNil(t, opts, "%v", iso) {
			assert.Equal(t, level, opts.Isolation, "%v", iso)
		}
	}
	assert.False(t, model.IsolationNone.IsTransactional())
	assert.Panics(t, func() {
		model.IsolationNone.TxOptions()
	}, "the none mode has no transaction options")
}
