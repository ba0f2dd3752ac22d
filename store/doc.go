// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the entity store for questions, choices, and votes.

All queries are written with ? placeholders and rebound for the configured
dialect. Multi-row writes run in a single transaction:

	st := store.New(conn, db.DialectPostgres)
	poll, err := st.CreatePoll(ctx, question, []string{"Red", "Blue"})

Lookups return ErrNotFound for missing rows. InsertVote returns
ErrDuplicateVote when the (question_id, session_id) unique index rejects
the row, which is how concurrent duplicate votes are resolved.
*/
package store
