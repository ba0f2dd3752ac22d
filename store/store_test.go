// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/polling/db"
	"github.com/danielhkuo/polling/models"
	"github.com/danielhkuo/polling/testutil"
)

func newTestStore(t *testing.T) (*Store, func(table string) int) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	count := func(table string) int { return testutil.CountRows(t, conn, table, "") }
	return New(conn, db.DialectSQLite), count
}

func TestCreatePoll(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()
	pubDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	poll, err := s.CreatePoll(ctx, models.Question{QuestionText: "Favorite color?", PubDate: pubDate},
		[]string{"Red", "Blue", "Green"})
	require.NoError(t, err)

	assert.NotZero(t, poll.Question.ID)
	require.Len(t, poll.Choices, 3)
	for i, want := range []string{"Red", "Blue", "Green"} {
		assert.Equal(t, want, poll.Choices[i].ChoiceText)
		assert.Equal(t, poll.Question.ID, poll.Choices[i].QuestionID)
		if i > 0 {
			assert.Greater(t, poll.Choices[i].ID, poll.Choices[i-1].ID)
		}
	}
	assert.Equal(t, 1, count("question"))
	assert.Equal(t, 3, count("choice"))

	got, err := s.GetQuestion(ctx, poll.Question.ID)
	require.NoError(t, err)
	assert.Equal(t, "Favorite color?", got.QuestionText)
	assert.True(t, pubDate.Equal(got.PubDate))
	assert.Equal(t, time.UTC, got.PubDate.Location())

	choices, err := s.ListChoices(ctx, poll.Question.ID)
	require.NoError(t, err)
	assert.Equal(t, poll.Choices, choices)
}

func TestCreatePoll_FailureMidInsertLeavesNothing(t *testing.T) {
	s, count := newTestStore(t)

	// Third choice violates the length CHECK after the question and two
	// choices were already inserted in the transaction.
	_, err := s.CreatePoll(context.Background(),
		models.Question{QuestionText: "Atomic?", PubDate: time.Now()},
		[]string{"Yes", "No", strings.Repeat("x", 201)})
	require.Error(t, err)

	assert.Equal(t, 0, count("question"))
	assert.Equal(t, 0, count("choice"))
}

func TestGetQuestion_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.GetQuestion(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetChoice(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	poll, err := s.CreatePoll(ctx, models.Question{QuestionText: "Q", PubDate: time.Now()}, []string{"A", "B"})
	require.NoError(t, err)

	choice, err := s.GetChoice(ctx, poll.Choices[1].ID)
	require.NoError(t, err)
	assert.Equal(t, poll.Choices[1], choice)

	_, err = s.GetChoice(ctx, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListChoices_UnknownQuestion(t *testing.T) {
	s, _ := newTestStore(t)
	choices, err := s.ListChoices(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, choices)
	assert.NotNil(t, choices)
}

func TestInsertVote(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()
	poll, err := s.CreatePoll(ctx, models.Question{QuestionText: "Q", PubDate: time.Now()}, []string{"A", "B"})
	require.NoError(t, err)
	qid, cid := poll.Question.ID, poll.Choices[0].ID

	voted, err := s.HasVoted(ctx, qid, "session-1")
	require.NoError(t, err)
	assert.False(t, voted)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	vote, err := s.InsertVote(ctx, models.Vote{QuestionID: qid, ChoiceID: cid, SessionID: "session-1", CreatedAt: created})
	require.NoError(t, err)
	assert.NotZero(t, vote.ID)
	assert.Equal(t, created, vote.CreatedAt)

	voted, err = s.HasVoted(ctx, qid, "session-1")
	require.NoError(t, err)
	assert.True(t, voted)

	_, err = s.InsertVote(ctx, models.Vote{QuestionID: qid, ChoiceID: poll.Choices[1].ID, SessionID: "session-1"})
	assert.ErrorIs(t, err, ErrDuplicateVote)
	assert.Equal(t, 1, count("vote"))

	// Another session may vote
	_, err = s.InsertVote(ctx, models.Vote{QuestionID: qid, ChoiceID: cid, SessionID: "session-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, count("vote"))
}

func TestInsertVote_EmptySessionAllowsRepeats(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()
	poll, err := s.CreatePoll(ctx, models.Question{QuestionText: "Q", PubDate: time.Now()}, []string{"A", "B"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.InsertVote(ctx, models.Vote{QuestionID: poll.Question.ID, ChoiceID: poll.Choices[0].ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, count("vote"))
}

func TestInsertVote_ChoiceFromOtherQuestion(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()
	a, err := s.CreatePoll(ctx, models.Question{QuestionText: "A", PubDate: time.Now()}, []string{"1", "2"})
	require.NoError(t, err)
	b, err := s.CreatePoll(ctx, models.Question{QuestionText: "B", PubDate: time.Now()}, []string{"3", "4"})
	require.NoError(t, err)

	_, err = s.InsertVote(ctx, models.Vote{QuestionID: a.Question.ID, ChoiceID: b.Choices[0].ID, SessionID: "s"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDuplicateVote))
	assert.Equal(t, 0, count("vote"))
}

func TestInsertVote_ConcurrentSameSession(t *testing.T) {
	s, count := newTestStore(t)
	ctx := context.Background()
	poll, err := s.CreatePoll(ctx, models.Question{QuestionText: "Q", PubDate: time.Now()}, []string{"A", "B"})
	require.NoError(t, err)

	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertVote(ctx, models.Vote{QuestionID: poll.Question.ID, ChoiceID: poll.Choices[0].ID, SessionID: "racer"})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrDuplicateVote):
				dup.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(9), dup.Load())
	assert.Equal(t, 1, count("vote"))
}
