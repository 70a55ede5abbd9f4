// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// pgTypeMap adapts pgx-native types (arrays) to database/sql scanning.
var pgTypeMap = pgtype.NewMap()

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). The slug pre-checks are advisory; the unique
// indexes are authoritative, so a lost race still surfaces as a conflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isForeignKeyViolation reports whether err is a Postgres foreign-key
// violation (SQLSTATE 23503), raised by the RESTRICT join-table constraints
// when a referenced category or tag is deleted concurrently.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// uuidStrings converts IDs for use as a $n::uuid[] parameter. The pgx
// driver encodes []string as a text array, which Postgres casts back.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
