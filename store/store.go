// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/polling/db"
	"github.com/danielhkuo/polling/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateVote = errors.New("vote already exists for session")
)

// Store reads and writes questions, choices, and votes.
type Store struct {
	db      *sql.DB
	dialect string
}

func New(conn *sql.DB, dialect string) *Store {
	return &Store{db: conn, dialect: dialect}
}

func (s *Store) q(query string) string {
	return db.Rebind(s.dialect, query)
}

// CreatePoll inserts a question and its choices in one transaction.
// Choices get increasing ids in the order given.
func (s *Store) CreatePoll(ctx context.Context, question models.Question, choiceTexts []string) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO question (question_text, pub_date)
		VALUES (?, ?)
		RETURNING id
	`), question.QuestionText, question.PubDate).Scan(&question.ID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert question: %w", err)
	}

	choices := make([]models.Choice, 0, len(choiceTexts))
	for _, text := range choiceTexts {
		choice := models.Choice{QuestionID: question.ID, ChoiceText: text}
		err = tx.QueryRowContext(ctx, s.q(`
			INSERT INTO choice (question_id, choice_text)
			VALUES (?, ?)
			RETURNING id
		`), question.ID, text).Scan(&choice.ID)
		if err != nil {
			return models.Poll{}, fmt.Errorf("failed to insert choice: %w", err)
		}
		choices = append(choices, choice)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return models.Poll{Question: question, Choices: choices}, nil
}

// GetQuestion returns ErrNotFound if no question has the id.
func (s *Store) GetQuestion(ctx context.Context, id int64) (models.Question, error) {
	var question models.Question
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, question_text, pub_date
		FROM question
		WHERE id = ?
	`), id).Scan(&question.ID, &question.QuestionText, &question.PubDate)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, ErrNotFound
	}
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to query question: %w", err)
	}
	question.PubDate = question.PubDate.UTC()

	return question, nil
}

// GetChoice returns ErrNotFound if no choice has the id.
func (s *Store) GetChoice(ctx context.Context, id int64) (models.Choice, error) {
	var choice models.Choice
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, question_id, choice_text
		FROM choice
		WHERE id = ?
	`), id).Scan(&choice.ID, &choice.QuestionID, &choice.ChoiceText)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Choice{}, ErrNotFound
	}
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to query choice: %w", err)
	}

	return choice, nil
}

// ListChoices returns the choices of a question ordered by id.
func (s *Store) ListChoices(ctx context.Context, questionID int64) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, question_id, choice_text
		FROM choice
		WHERE question_id = ?
		ORDER BY id
	`), questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.ChoiceText); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate choices: %w", err)
	}

	return choices, nil
}

// HasVoted reports whether the session already voted on the question.
func (s *Store) HasVoted(ctx context.Context, questionID int64, sessionID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT COUNT(*) FROM vote
		WHERE question_id = ? AND session_id = ?
	`), questionID, sessionID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query votes: %w", err)
	}

	return count > 0, nil
}

// InsertVote records a vote in its own transaction. A second vote for the
// same question and non-empty session fails with ErrDuplicateVote.
func (s *Store) InsertVote(ctx context.Context, vote models.Vote) (models.Vote, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}

	err = tx.QueryRowContext(ctx, s.q(`
		INSERT INTO vote (question_id, choice_id, session_id, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), vote.QuestionID, vote.ChoiceID, vote.SessionID, vote.CreatedAt).Scan(&vote.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Vote{}, ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return models.Vote{}, ErrDuplicateVote
		}
		return models.Vote{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return vote, nil
}
