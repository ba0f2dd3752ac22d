// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	var ddl string
	switch dialect {
	case DialectPostgres:
		ddl = postgresSchema
	case DialectSQLite:
		ddl = sqliteSchema
	default:
		return fmt.Errorf("failed to create schema: unsupported dialect %q", dialect)
	}

	_, err := db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The composite foreign key on vote(choice_id, question_id) makes it
// impossible to record a vote for a choice of another question, and the
// partial unique index allows one vote per session per question.

const postgresSchema = `
-- Questions
CREATE TABLE IF NOT EXISTS question (
    id BIGSERIAL PRIMARY KEY,
    question_text TEXT NOT NULL CHECK (length(question_text) BETWEEN 1 AND 200),
    pub_date TIMESTAMPTZ NOT NULL
);

-- Choices
CREATE TABLE IF NOT EXISTS choice (
    id BIGSERIAL PRIMARY KEY,
    question_id BIGINT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_text TEXT NOT NULL CHECK (length(choice_text) BETWEEN 1 AND 200),
    UNIQUE (id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_choice_question_id ON choice(question_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    question_id BIGINT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_id BIGINT NOT NULL,
    session_id TEXT NOT NULL DEFAULT '' CHECK (length(session_id) <= 200),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    FOREIGN KEY (choice_id, question_id) REFERENCES choice(id, question_id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vote_question_session ON vote(question_id, session_id) WHERE session_id <> '';
CREATE INDEX IF NOT EXISTS idx_vote_choice_id ON vote(choice_id);
`

const sqliteSchema = `
-- Questions
CREATE TABLE IF NOT EXISTS question (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL CHECK (length(question_text) BETWEEN 1 AND 200),
    pub_date TIMESTAMP NOT NULL
);

-- Choices
CREATE TABLE IF NOT EXISTS choice (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_text TEXT NOT NULL CHECK (length(choice_text) BETWEEN 1 AND 200),
    UNIQUE (id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_choice_question_id ON choice(question_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    choice_id INTEGER NOT NULL,
    session_id TEXT NOT NULL DEFAULT '' CHECK (length(session_id) <= 200),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (choice_id, question_id) REFERENCES choice(id, question_id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_vote_question_session ON vote(question_id, session_id) WHERE session_id <> '';
CREATE INDEX IF NOT EXISTS idx_vote_choice_id ON vote(choice_id);
`
