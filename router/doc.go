// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the polling API.

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, sessions)

# Endpoints

	GET  /health               - Liveness check
	GET  /                     - Banner
	POST /polls                - Create a poll with its choices
	GET  /polls/{id}           - Poll and choices, no vote counts
	POST /polls/{id}/votes     - Cast one vote per session

Each poll route also accepts a trailing slash. Handlers are wrapped with
middleware.WithLogging; CORS and panic recovery are applied in main.
*/
package router
