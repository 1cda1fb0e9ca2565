// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides the PostgreSQL adapter of the repo
// interfaces. The Pool, Conn, and Tx types embed the *gorm.DB object
// and expose it to the repository packages of this adapter layer,
// while the use cases layer only observes them through the
// version-independent pkg/core/repo interfaces.
// Transactions may be opened at the DBMS default isolation level or at
// an explicitly requested level, which is the main knob that the
// anomaly scenarios turn.
package postgres
