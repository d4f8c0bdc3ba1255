// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package postgres

import (
	"database/sql"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = pq.ErrorCode("23505")

// constraintName extracts the violated constraint from a unique-violation
// error, or "" if err is not one. This is the only place storage errors are
// discriminated; callers get typed domain errors, never pq internals.
func constraintName(err error) string {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
		return pqErr.Constraint
	}
	return ""
}
