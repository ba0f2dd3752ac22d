// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/polling/cliparse"
	"github.com/danielhkuo/polling/db"
)

// TestSessionSecret signs session cookies in tests
const TestSessionSecret = "test-session-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// The database lives in a temporary directory removed after the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DialectSQLite, "file:"+filepath.Join(t.TempDir(), "polls.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file:test.db",
		DatabaseType:  db.DialectSQLite,
		SessionSecret: TestSessionSecret,
		CookieSecure:  true,
		LogLevel:      "info",
	}
}

// CreateTestPoll inserts a question with the given choices and returns the
// question ID and the choice IDs in order
func CreateTestPoll(t *testing.T, conn *sql.DB, questionText string, choices ...string) (int64, []int64) {
	t.Helper()

	var questionID int64
	err := conn.QueryRow(`
		INSERT INTO question (question_text, pub_date)
		VALUES (?, ?)
		RETURNING id
	`, questionText, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).Scan(&questionID)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	choiceIDs := make([]int64, 0, len(choices))
	for _, text := range choices {
		var choiceID int64
		err := conn.QueryRow(`
			INSERT INTO choice (question_id, choice_text)
			VALUES (?, ?)
			RETURNING id
		`, questionID, text).Scan(&choiceID)
		if err != nil {
			t.Fatalf("Failed to create test choice: %v", err)
		}
		choiceIDs = append(choiceIDs, choiceID)
	}

	return questionID, choiceIDs
}

// CreateTestVote records a vote directly, bypassing validation
func CreateTestVote(t *testing.T, conn *sql.DB, questionID, choiceID int64, sessionID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (question_id, choice_id, session_id, created_at)
		VALUES (?, ?, ?, ?)
	`, questionID, choiceID, sessionID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// CountRows returns the number of rows in table matching the optional where clause
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...interface{}) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		case []byte:
			raw = b
		default:
			raw, _ = json.Marshal(body)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// SessionCookie returns the session cookie set on the response, if any
func SessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
