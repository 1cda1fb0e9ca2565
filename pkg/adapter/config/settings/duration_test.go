// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings_test

import (
	"fmt"
	"time"

	"github.com/momeni/isolation-levels/pkg/adapter/config/settings"
	"gopkg.in/yaml.v3"
)

func ExampleDuration() {
	var d settings.Duration
	err := yaml.Unmarshal([]byte("250ms"), &d)
	fmt.Println(err)
	fmt.Println(time.Duration(d))
	b, err := yaml.Marshal(settings.Duration(90 * time.Second))
	fmt.Println(err)
	fmt.Print(string(b))
	// Output:
	// <nil>
	// 250ms
	// <nil>
	// 1m30s
}

func ExampleDuration_invalid() {
	var d settings.Duration
	err := d.UnmarshalText([]byte("fast"))
	fmt.Println(err)
	// Output:
	// time: invalid duration "fast"
}
