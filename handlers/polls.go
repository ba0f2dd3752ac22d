// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/polling/middleware"
	"github.com/danielhkuo/polling/models"
	"github.com/danielhkuo/polling/polls"
)

type PollHandler struct {
	polls *polls.Service
}

func NewPollHandler(svc *polls.Service) *PollHandler {
	return &PollHandler{polls: svc}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Type and format checks per field, then business rules
	verr := &polls.ValidationError{}
	questionText, _ := parseString(req.QuestionText, "question_text", verr)
	pubDate, _ := parseDatetime(req.PubDate, "pub_date", verr)
	choices, _ := parseStringList(req.Choices, "choices", verr)

	input := polls.NewPoll{
		QuestionText: questionText,
		PubDate:      pubDate,
		Choices:      choices,
	}.Normalize()
	input.Validate(verr)
	if !verr.Empty() {
		middleware.FieldErrorResponse(w, verr.Fields)
		return
	}

	poll, err := h.polls.CreatePoll(r.Context(), input)
	if err != nil {
		var validation *polls.ValidationError
		if errors.As(err, &validation) {
			middleware.FieldErrorResponse(w, validation.Fields)
			return
		}
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error creating poll: database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.NewPollResponse(poll))
}

// GetPoll handles GET /polls/{id}
// Returns the question and its choices without vote counts
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, models.MessageNotFound)
		return
	}

	poll, err := h.polls.GetPoll(r.Context(), pollID)
	if err != nil {
		var notFound *polls.NotFoundError
		if errors.As(err, &notFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, models.MessageNotFound)
			return
		}
		slog.Error("failed to get poll", "poll_id", pollID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NewPollResponse(poll))
}
