// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scenariouc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the scenario use case.
type Option func(uc *UseCase) error

// WithDelayUnit option configures the base delay unit of a scenario
// UseCase instance. All documented sleep offsets are small multiples
// of this unit, hence, a slow or heavily loaded environment can
// stretch every interleaving proportionally by passing a larger unit.
// This option may be passed to the New() function.
func WithDelayUnit(unit time.Duration) Option {
	return func(uc *UseCase) error {
		if d := int64(unit); d <= 0 {
			return fmt.Errorf("delay unit (%d) is not positive", d)
		}
		if uc.unit != 0 {
			return errors.New("delay unit is already configured")
		}
		uc.unit = unit
		return nil
	}
}

// WithSleeper option replaces the wall-clock time.Sleep delay
// strategy of a scenario UseCase instance.
// This option may be passed to the New() function.
func WithSleeper(s Sleeper) Option {
	return func(uc *UseCase) error {
		if s == nil {
			return errors.New("sleeper must not be nil")
		}
		if uc.sleep != nil {
			return errors.New("sleeper is already configured")
		}
		uc.sleep = s
		return nil
	}
}
