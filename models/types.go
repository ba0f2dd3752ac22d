// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Field limits mirror the column sizes in the schema.
const (
	MaxQuestionTextLen = 200
	MaxChoiceTextLen   = 200
	MaxSessionIDLen    = 200
	MinChoices         = 2
)

// Response messages
const (
	MessageVoteRecorded = "Vote recorded successfully"
	MessageNotFound     = "Not found"
)

// NonFieldErrors is the key used for validation errors not tied to a field.
const NonFieldErrors = "non_field_errors"

// Request types

// CreatePollRequest keeps raw values so each field can be validated on its own.
type CreatePollRequest struct {
	QuestionText json.RawMessage `json:"question_text"`
	PubDate      json.RawMessage `json:"pub_date"`
	Choices      json.RawMessage `json:"choices"`
}

type CastVoteRequest struct {
	ChoiceID json.RawMessage `json:"choice_id"`
}

// Response types

type ChoiceResponse struct {
	ID         int64  `json:"id"`
	ChoiceText string `json:"choice_text"`
}

type PollResponse struct {
	ID           int64            `json:"id"`
	QuestionText string           `json:"question_text"`
	PubDate      time.Time        `json:"pub_date"`
	Choices      []ChoiceResponse `json:"choices"`
}

// DetailResponse is the body for errors and plain acknowledgements.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

// Domain types

type Question struct {
	ID           int64
	QuestionText string
	PubDate      time.Time
}

// WasPublishedRecently reports whether the question was published within the
// day before now.
func (q Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.Before(now.Add(-24 * time.Hour))
}

type Choice struct {
	ID         int64
	QuestionID int64
	ChoiceText string
}

// Vote is append-only; CreatedAt is set by the recorder and never changes.
type Vote struct {
	ID         int64
	QuestionID int64
	ChoiceID   int64
	SessionID  string
	CreatedAt  time.Time
}

// Poll is a question together with its choices in creation order.
type Poll struct {
	Question Question
	Choices  []Choice
}

// NewPollResponse builds the public poll body. Vote tallies are never included.
func NewPollResponse(p Poll) PollResponse {
	choices := make([]ChoiceResponse, 0, len(p.Choices))
	for _, c := range p.Choices {
		choices = append(choices, ChoiceResponse{ID: c.ID, ChoiceText: c.ChoiceText})
	}
	return PollResponse{
		ID:           p.Question.ID,
		QuestionText: p.Question.QuestionText,
		PubDate:      p.Question.PubDate,
		Choices:      choices,
	}
}
