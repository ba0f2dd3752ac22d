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
	"github.com/danielhkuo/polling/session"
)

type VotingHandler struct {
	polls    *polls.Service
	sessions *session.Manager
}

func NewVotingHandler(svc *polls.Service, sessions *session.Manager) *VotingHandler {
	return &VotingHandler{polls: svc, sessions: sessions}
}

// notFoundFields maps a missing resource to the request field that named it.
var notFoundFields = map[string]struct{ field, message string }{
	"poll":   {"poll_id", polls.MsgPollNotFound},
	"choice": {"choice_id", polls.MsgChoiceNotFound},
}

// CastVote handles POST /polls/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pathID(r)
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, models.MessageNotFound)
		return
	}

	var req models.CastVoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	verr := &polls.ValidationError{}
	choiceID, ok := parseInteger(req.ChoiceID, "choice_id", verr)
	if !ok {
		middleware.FieldErrorResponse(w, verr.Fields)
		return
	}

	// Session cookie is issued even if the vote is rejected below
	sessionID, cookie, err := h.sessions.Resolve(r)
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error recording vote")
		return
	}
	if cookie != nil {
		http.SetCookie(w, cookie)
	}

	_, err = h.polls.CastVote(r.Context(), pollID, choiceID, sessionID)
	if err != nil {
		var validation *polls.ValidationError
		var notFound *polls.NotFoundError
		switch {
		case errors.As(err, &validation):
			middleware.FieldErrorResponse(w, validation.Fields)
		case errors.As(err, &notFound):
			f, known := notFoundFields[notFound.Resource]
			if !known {
				f.field, f.message = models.NonFieldErrors, notFound.Error()
			}
			middleware.FieldErrorResponse(w, models.FieldErrors{f.field: {f.message}})
		default:
			slog.Error("failed to record vote", "poll_id", pollID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Error recording vote")
		}
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.DetailResponse{
		Detail: models.MessageVoteRecorded,
	})
}
