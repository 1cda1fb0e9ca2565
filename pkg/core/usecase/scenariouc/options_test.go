// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scenariouc_test

import (
	"testing"
	"time"

	"github.com/momeni/isolation-levels/pkg/core/usecase/scenariouc"
	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	uc, err := scenariouc.New(nil, nil, nil, nil)
	assert.NoError(t, err, "all options are optional")
	assert.NotNil(t, uc)

	uc, err = scenariouc.New(
		nil, nil, nil, nil,
		scenariouc.WithDelayUnit(time.Second),
		scenariouc.WithSleeper(func(time.Duration) {}),
	)
	assert.NoError(t, err)
	assert.NotNil(t, uc)

	_, err = scenariouc.New(
		nil, nil, nil, nil, scenariouc.WithDelayUnit(-time.Second),
	)
	assert.ErrorContains(t, err, "not positive")

	_, err = scenariouc.New(
		nil, nil, nil, nil,
		scenariouc.WithDelayUnit(time.Second),
		scenariouc.WithDelayUnit(time.Second),
	)
	assert.ErrorContains(t, err, "already configured")

	_, err = scenariouc.New(
		nil, nil, nil, nil, scenariouc.WithSleeper(nil),
	)
	assert.ErrorContains(t, err, "must not be nil")
}
