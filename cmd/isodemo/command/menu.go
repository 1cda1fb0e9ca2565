// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// migrator lists the migration use case operations which the
// interactive menu needs, so the menu loop can be tested with a fake
// implementation without a live database.
type migrator interface {
	Latest() uint
	Applied(ctx context.Context) ([]uint, error)
	MigrateToLatest(ctx context.Context) error
	MigrateTo(ctx context.Context, version uint) error
	RollbackOne(ctx context.Context) error
	RollbackTo(ctx context.Context, version uint) error
}

const menuText = `
 1) migrate to latest version
 2) migrate to a specific version
 3) rollback the latest applied step
 4) rollback to a specific version
 5) list applied versions
 q) quit
choice: `

// runMenu presents the migration actions menu in a loop, reading
// operator choices from in and echoing results to out, until the
// quit choice or the end of the input stream is reached.
// The rollback actions drop tables, hence, they are confirmed before
// being applied. Errors of individual actions are echoed and the
// loop continues, so a typo does not abort an interactive session.
func runMenu(
	ctx context.Context, uc migrator, in *bufio.Scanner, out io.Writer,
) error {
	for {
		fmt.Fprint(out, menuText)
		if !in.Scan() {
			return in.Err()
		}
		choice := strings.TrimSpace(in.Text())
		var err error
		switch choice {
		case "1":
			err = uc.MigrateToLatest(ctx)
		case "2":
			err = withVersion(uc, in, out, "target version: ",
				func(v uint) error {
					return uc.MigrateTo(ctx, v)
				})
		case "3":
			err = confirmed(in, out, func() error {
				return uc.RollbackOne(ctx)
			})
		case "4":
			err = withVersion(uc, in, out, "target version: ",
				func(v uint) error {
					return confirmed(in, out, func() error {
						return uc.RollbackTo(ctx, v)
					})
				})
		case "5":
			err = listApplied(ctx, uc, out)
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown choice: %q\n", choice)
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, "done")
	}
}

// withVersion prompts for a version number and passes it to f.
// Version 0 is accepted since rolling back to version 0 reverts the
// whole schema; the version range check belongs to the migrator.
func withVersion(
	uc migrator, in *bufio.Scanner, out io.Writer,
	prompt string, f func(v uint) error,
) error {
	fmt.Fprintf(out, "%s(latest is %d) ", prompt, uc.Latest())
	if !in.Scan() {
		return in.Err()
	}
	v, err := strconv.ParseUint(strings.TrimSpace(in.Text()), 10, 32)
	if err != nil {
		return fmt.Errorf("parsing version: %w", err)
	}
	return f(uint(v))
}

// confirmed asks for an explicit confirmation before running the f
// destructive action, reporting a skipped action as a nil error.
func confirmed(in *bufio.Scanner, out io.Writer, f func() error) error {
	fmt.Fprint(out, "this action drops tables, continue? [y/N] ")
	if !confirm(in) {
		fmt.Fprintln(out, "skipped")
		return nil
	}
	return f()
}

func listApplied(ctx context.Context, uc migrator, out io.Writer) error {
	vers, err := uc.Applied(ctx)
	if err != nil {
		return err
	}
	if len(vers) == 0 {
		fmt.Fprintln(out, "no applied versions")
		return nil
	}
	for _, v := range vers {
		fmt.Fprintf(out, "version %d is applied\n", v)
	}
	return nil
}
