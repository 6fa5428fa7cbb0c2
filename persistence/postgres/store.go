// Copyright (C) 2025 clout-protocol
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package postgres implements the Persistence port against a single
// generic table, keyed by (section, id). A real multi-node relay or
// community server that wants durability across restarts configures this
// backend instead of the in-memory one; the schema never changes when a
// new section is introduced since the section name is just a column
// value.
package postgres

import (
	"context"
	"fmt"

	"github.com/clout-protocol/clout/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds PostgreSQL connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Store implements ports.Persistence for PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// schema is applied once at startup; CREATE TABLE IF NOT EXISTS keeps it
// idempotent across restarts.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	section    TEXT NOT NULL,
	id         TEXT NOT NULL,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (section, id)
)`

// NewStore connects to PostgreSQL and ensures the documents table exists.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Put upserts value at (section, id).
func (s *Store) Put(ctx context.Context, section ports.Section, id string, value []byte) error {
	query := `
		INSERT INTO documents (section, id, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (section, id) DO UPDATE SET value = $3, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, string(section), id, value); err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", section, id, err)
	}
	return nil
}

// Get retrieves the value stored at (section, id).
func (s *Store) Get(ctx context.Context, section ports.Section, id string) ([]byte, bool, error) {
	query := `SELECT value FROM documents WHERE section = $1 AND id = $2`

	var value []byte
	err := s.pool.QueryRow(ctx, query, string(section), id).Scan(&value)
	if err == pgx.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%s: %w", section, id, err)
	}
	return value, true, nil
}

// Delete removes (section, id). Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, section ports.Section, id string) error {
	query := `DELETE FROM documents WHERE section = $1 AND id = $2`
	if _, err := s.pool.Exec(ctx, query, string(section), id); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", section, id, err)
	}
	return nil
}

// List returns every id stored in section.
func (s *Store) List(ctx context.Context, section ports.Section) ([]string, error) {
	query := `SELECT id FROM documents WHERE section = $1`

	rows, err := s.pool.Query(ctx, query, string(section))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", section, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id in %s: %w", section, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

var _ ports.Persistence = (*Store)(nil)
