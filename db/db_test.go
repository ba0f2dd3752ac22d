// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := Open(DialectSQLite, "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, CreateSchema(conn, DialectSQLite))
	return conn
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	// Second call must not fail
	require.NoError(t, CreateSchema(conn, DialectSQLite))

	for _, table := range []string{"question", "choice", "vote"} {
		var count int
		err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestCreateSchema_UnsupportedDialect(t *testing.T) {
	conn := openTestDB(t)
	err := CreateSchema(conn, "mysql")
	assert.Error(t, err)
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"file:a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		sqliteDSN("file:a.db"))
	assert.Contains(t, sqliteDSN("file:a.db?mode=rwc"), "mode=rwc&_pragma=foreign_keys(1)")
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		query   string
		want    string
	}{
		{"sqlite untouched", DialectSQLite, "SELECT * FROM vote WHERE question_id = ? AND session_id = ?", "SELECT * FROM vote WHERE question_id = ? AND session_id = ?"},
		{"postgres numbered", DialectPostgres, "SELECT * FROM vote WHERE question_id = ? AND session_id = ?", "SELECT * FROM vote WHERE question_id = $1 AND session_id = $2"},
		{"postgres no params", DialectPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.query))
		})
	}
}

func insertPoll(t *testing.T, conn *sql.DB) (questionID, choiceID int64) {
	t.Helper()

	err := conn.QueryRow("INSERT INTO question (question_text, pub_date) VALUES (?, ?) RETURNING id",
		"Favorite color?", time.Now()).Scan(&questionID)
	require.NoError(t, err)

	err = conn.QueryRow("INSERT INTO choice (question_id, choice_text) VALUES (?, ?) RETURNING id",
		questionID, "Red").Scan(&choiceID)
	require.NoError(t, err)

	return questionID, choiceID
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	conn := openTestDB(t)
	questionID, choiceID := insertPoll(t, conn)

	insert := "INSERT INTO vote (question_id, choice_id, session_id) VALUES (?, ?, ?)"
	_, err := conn.Exec(insert, questionID, choiceID, "session-a")
	require.NoError(t, err)

	_, err = conn.Exec(insert, questionID, choiceID, "session-a")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", err)))
}

func TestSchema_EmptySessionNotUnique(t *testing.T) {
	conn := openTestDB(t)
	questionID, choiceID := insertPoll(t, conn)

	insert := "INSERT INTO vote (question_id, choice_id, session_id) VALUES (?, ?, '')"
	for i := 0; i < 3; i++ {
		_, err := conn.Exec(insert, questionID, choiceID)
		require.NoError(t, err)
	}
}

func TestSchema_VoteChoiceMustBelongToQuestion(t *testing.T) {
	conn := openTestDB(t)
	_, choiceA := insertPoll(t, conn)
	questionB, _ := insertPoll(t, conn)

	_, err := conn.Exec("INSERT INTO vote (question_id, choice_id, session_id) VALUES (?, ?, ?)",
		questionB, choiceA, "session-a")
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err))
}

func TestSchema_CascadeDelete(t *testing.T) {
	conn := openTestDB(t)
	questionID, choiceID := insertPoll(t, conn)

	_, err := conn.Exec("INSERT INTO vote (question_id, choice_id, session_id) VALUES (?, ?, ?)",
		questionID, choiceID, "session-a")
	require.NoError(t, err)

	_, err = conn.Exec("DELETE FROM question WHERE id = ?", questionID)
	require.NoError(t, err)

	var choices, votes int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM choice").Scan(&choices))
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM vote").Scan(&votes))
	assert.Zero(t, choices)
	assert.Zero(t, votes)
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed")))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
}
