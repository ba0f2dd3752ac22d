// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the polling API server.

The server hosts single-choice polls: a question with at least two choices,
read back without vote counts, and a voting endpoint that accepts one vote
per poll for each browser session.

# Starting the Server

The server requires environment variables or CLI flags for configuration.
A .env file in the working directory is loaded first if present:

	DATABASE_URL=file:polls.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - SESSION_SECRET (-session-secret): Key for signing session cookies

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - REDIS_URL (-redis-url): Enables the Redis vote lock
  - COOKIE_SECURE (-cookie-secure): Secure flag on the session cookie (default: true)
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)

# Architecture

  - handlers: HTTP decoding and error mapping
  - polls: Validation and the vote flow
  - store: SQL access for questions, choices and votes
  - db: Connection setup and schema with integrity constraints
  - session: Signed session cookie
  - votelock: Optional per-session Redis lock
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, panic recovery, JSON helpers
  - logging: slog handler selection
  - models: Domain, request and response types
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
