// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: Secret for signing session cookies (required)
  - CookieSecure: Send the session cookie over HTTPS only (default: true)
  - RedisURL: Enables the Redis vote lock when set
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--session-secret  Session cookie signing secret
	--cookie-secure   true or false
	--redis-url       Redis URL
	--log-level       Log level

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	SESSION_SECRET → --session-secret
	COOKIE_SECURE  → --cookie-secure
	REDIS_URL      → --redis-url
	LOG_LEVEL      → --log-level

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file into the environment first; real environment variables win over
values in the file.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided
  - DATABASE_TYPE must be sqlite or postgres
*/
package cliparse
