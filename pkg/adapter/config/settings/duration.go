// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the common scalar types which may appear
// in the configuration file.
package settings

import (
	"log/slog"
	"time"
)

// Duration is a specialization of the time.Duration which can be
// decoded from the human-readable time.ParseDuration format, as it
// appears in a YAML configuration file.
type Duration time.Duration

// UnmarshalText reifies the encoding.TextUnmarshaler interface, so
// a byte slice (e.g., read from a YAML file) can be decoded as a
// time duration. The format of the `data` argument should conform
// to the time.ParseDuration expected format. In absence of errors,
// a nil error will be returned and only then, `d` receiver will be
// updated to contain the decoded duration.
func (d *Duration) UnmarshalText(data []byte) error {
	dd, err := time.ParseDuration(string(data))
	if err != nil {
		return err
	}
	*d = Duration(dd)
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface and
// serializes `d` duration using the time.Duration string format.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// LogValue implements slog.LogValuer and returns a DurationValue, so
// a Duration is logged like the standard time.Duration values.
func (d Duration) LogValue() slog.Value {
	return slog.DurationValue(time.Duration(d))
}
