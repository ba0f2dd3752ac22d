// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/polling/models"
	"github.com/danielhkuo/polling/store"
	"github.com/danielhkuo/polling/votelock"
)

// Service implements poll creation, retrieval, and voting on top of the store.
type Service struct {
	store  *store.Store
	locker votelock.Locker
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithLocker serializes votes per (poll, session) with l.
func WithLocker(l votelock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		locker: votelock.Nop{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.locker == nil {
		s.locker = votelock.Nop{}
	}
	return s
}

// NewPoll is the input for CreatePoll.
type NewPoll struct {
	QuestionText string
	PubDate      time.Time
	Choices      []string
}

// Normalize trims surrounding whitespace from all texts and converts the
// publication date to UTC.
func (p NewPoll) Normalize() NewPoll {
	out := NewPoll{
		QuestionText: strings.TrimSpace(p.QuestionText),
		PubDate:      p.PubDate.UTC(),
		Choices:      make([]string, len(p.Choices)),
	}
	for i, c := range p.Choices {
		out.Choices[i] = strings.TrimSpace(c)
	}
	return out
}

// Validate checks a normalized NewPoll and adds any problems to verr.
// Fields that already have an error in verr are skipped.
func (p NewPoll) Validate(verr *ValidationError) {
	if _, ok := verr.Fields["question_text"]; !ok {
		switch {
		case p.QuestionText == "":
			verr.Add("question_text", MsgBlank)
		case utf8.RuneCountInString(p.QuestionText) > models.MaxQuestionTextLen:
			verr.Add("question_text", maxLengthMessage(models.MaxQuestionTextLen))
		}
	}

	if _, ok := verr.Fields["pub_date"]; !ok && p.PubDate.IsZero() {
		verr.Add("pub_date", MsgRequired)
	}

	if _, ok := verr.Fields["choices"]; !ok {
		if len(p.Choices) < models.MinChoices {
			verr.Add("choices", MsgTooFewChoices)
		}
		for i, c := range p.Choices {
			switch {
			case c == "":
				verr.Add("choices", fmt.Sprintf("Item %d: %s", i+1, MsgBlank))
			case utf8.RuneCountInString(c) > models.MaxChoiceTextLen:
				verr.Add("choices", fmt.Sprintf("Item %d: %s", i+1, maxLengthMessage(models.MaxChoiceTextLen)))
			}
		}
	}
}

func maxLengthMessage(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// CreatePoll validates p and stores the question with all its choices
// atomically. Nothing is written when validation fails.
func (s *Service) CreatePoll(ctx context.Context, p NewPoll) (models.Poll, error) {
	p = p.Normalize()

	verr := &ValidationError{}
	p.Validate(verr)
	if !verr.Empty() {
		return models.Poll{}, verr
	}

	poll, err := s.store.CreatePoll(ctx, models.Question{
		QuestionText: p.QuestionText,
		PubDate:      p.PubDate,
	}, p.Choices)
	if err != nil {
		s.logger.Error("failed to create poll", "error", err)
		return models.Poll{}, &StorageError{Op: "create poll", Err: err}
	}

	s.logger.Info("poll created", "poll_id", poll.Question.ID, "choices", len(poll.Choices))
	return poll, nil
}

// GetPoll returns the question and its choices.
func (s *Service) GetPoll(ctx context.Context, pollID int64) (models.Poll, error) {
	question, err := s.store.GetQuestion(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Poll{}, &NotFoundError{Resource: "poll"}
	}
	if err != nil {
		s.logger.Error("failed to query poll", "poll_id", pollID, "error", err)
		return models.Poll{}, &StorageError{Op: "get poll", Err: err}
	}

	choices, err := s.store.ListChoices(ctx, pollID)
	if err != nil {
		s.logger.Error("failed to query choices", "poll_id", pollID, "error", err)
		return models.Poll{}, &StorageError{Op: "get poll", Err: err}
	}

	return models.Poll{Question: question, Choices: choices}, nil
}

// ValidateVote runs the vote checks in a fixed order: poll exists, choice
// exists, choice belongs to the poll, session has not voted yet. An empty
// session id skips the last check.
func (s *Service) ValidateVote(ctx context.Context, pollID, choiceID int64, sessionID string) (models.Question, models.Choice, error) {
	question, err := s.store.GetQuestion(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Question{}, models.Choice{}, &NotFoundError{Resource: "poll"}
	}
	if err != nil {
		return models.Question{}, models.Choice{}, &StorageError{Op: "look up poll", Err: err}
	}

	choice, err := s.store.GetChoice(ctx, choiceID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Question{}, models.Choice{}, &NotFoundError{Resource: "choice"}
	}
	if err != nil {
		return models.Question{}, models.Choice{}, &StorageError{Op: "look up choice", Err: err}
	}

	if choice.QuestionID != question.ID {
		return models.Question{}, models.Choice{}, newValidationError("choice_id", MsgChoiceNotInPoll)
	}

	if sessionID != "" {
		voted, err := s.store.HasVoted(ctx, question.ID, sessionID)
		if err != nil {
			return models.Question{}, models.Choice{}, &StorageError{Op: "check prior vote", Err: err}
		}
		if voted {
			return models.Question{}, models.Choice{}, newValidationError(models.NonFieldErrors, MsgAlreadyVoted)
		}
	}

	return question, choice, nil
}

// RecordVote stores a vote for an already validated question and choice.
// A concurrent vote that won the race surfaces as "already voted".
func (s *Service) RecordVote(ctx context.Context, question models.Question, choice models.Choice, sessionID string) (models.Vote, error) {
	vote, err := s.store.InsertVote(ctx, models.Vote{
		QuestionID: question.ID,
		ChoiceID:   choice.ID,
		SessionID:  sessionID,
		CreatedAt:  s.now().UTC(),
	})
	if errors.Is(err, store.ErrDuplicateVote) {
		return models.Vote{}, newValidationError(models.NonFieldErrors, MsgAlreadyVoted)
	}
	if err != nil {
		s.logger.Error("failed to record vote", "poll_id", question.ID, "choice_id", choice.ID, "error", err)
		return models.Vote{}, &StorageError{Op: "record vote", Err: err}
	}

	s.logger.Info("vote recorded", "poll_id", question.ID, "choice_id", choice.ID, "vote_id", vote.ID)
	return vote, nil
}

// CastVote validates and records a vote while holding the (poll, session) lock.
func (s *Service) CastVote(ctx context.Context, pollID, choiceID int64, sessionID string) (models.Vote, error) {
	if sessionID != "" {
		unlock, err := s.locker.Lock(ctx, votelock.Key(pollID, sessionID))
		if err != nil {
			s.logger.Error("failed to acquire vote lock", "poll_id", pollID, "error", err)
			return models.Vote{}, &StorageError{Op: "acquire vote lock", Err: err}
		}
		defer unlock()
	}

	question, choice, err := s.ValidateVote(ctx, pollID, choiceID, sessionID)
	if err != nil {
		return models.Vote{}, err
	}

	return s.RecordVote(ctx, question, choice, sessionID)
}
