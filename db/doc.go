// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections and schema creation.

# Connecting

Open accepts a dialect and a connection string:

	conn, err := db.Open(db.DialectSQLite, "file:polls.db")
	conn, err := db.Open(db.DialectPostgres, "postgres://...")

SQLite connections enable foreign keys, WAL and a busy timeout, and are
limited to a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - question: poll question and publication date
  - choice: answers for a question
  - vote: one row per recorded vote

# Relationships

	question 1──* choice
	question 1──* vote
	choice   1──* vote   (via (choice_id, question_id))

All foreign keys use ON DELETE CASCADE.

# Constraints

  - choice (id, question_id) unique, referenced by vote
  - vote (question_id, session_id) unique when session_id is not empty

# Helpers

Rebind converts ? placeholders to $N for PostgreSQL. IsUniqueViolation
recognizes unique constraint errors from both drivers.
*/
package db
