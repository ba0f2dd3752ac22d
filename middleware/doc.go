// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status,
duration_ms).

# Panic Recovery

Recover converts a panic into a 500 {"detail": "Internal server error"}
response and logs the stack:

	server := http.Server{
		Handler: middleware.Recover(middleware.CORS(mux)),
	}

# CORS Middleware

Reflects the request origin and allows credentials so the session cookie
is sent on cross-origin requests. Preflight OPTIONS requests get 200.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	middleware.FieldErrorResponse(w, models.FieldErrors{"choices": {"..."}})

ParseJSONBody decodes at most MaxBodyBytes of the request body.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
