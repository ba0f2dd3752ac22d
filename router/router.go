// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/polling/handlers"
	"github.com/danielhkuo/polling/middleware"
	"github.com/danielhkuo/polling/models"
	"github.com/danielhkuo/polling/polls"
	"github.com/danielhkuo/polling/session"
)

// Banner is the body served at the root path
const Banner = "polling API v1"

func NewRouter(svc *polls.Service, sessions *session.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc, sessions)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Polls
	createPoll := middleware.WithLogging(pollHandler.CreatePoll)
	getPoll := middleware.WithLogging(pollHandler.GetPoll)
	mux.HandleFunc("POST /polls", createPoll)
	mux.HandleFunc("POST /polls/{$}", createPoll)
	mux.HandleFunc("GET /polls/{id}", getPoll)
	mux.HandleFunc("GET /polls/{id}/{$}", getPoll)

	// Voting (session cookie issued on first vote)
	castVote := middleware.WithLogging(votingHandler.CastVote)
	mux.HandleFunc("POST /polls/{id}/votes", castVote)
	mux.HandleFunc("POST /polls/{id}/votes/{$}", castVote)

	// Root endpoint; "GET /" also catches every unknown GET path
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.ErrorResponse(w, http.StatusNotFound, models.MessageNotFound)
			return
		}
		w.Write([]byte(Banner))
	})

	return mux
}
