// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package votelock provides a per-(poll, session) lock held while a vote is
// validated and recorded. Redis uses SET NX with an expiry and releases the
// key with a compare-and-delete script; Nop is used when no Redis URL is
// configured.
package votelock
