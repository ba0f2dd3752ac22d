// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the polling API.

# Handler Types

  - PollHandler: Create a poll and read it back
  - VotingHandler: Cast a vote under the caller's session

Handlers are thin. They decode JSON, check field types, and hand the values
to polls.Service:

	pollHandler := handlers.NewPollHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc, sessions)

# Error Mapping

Validation problems become 400 with a field keyed body:

	{"choices": ["Ensure this field has at least 2 elements."]}

In the vote flow a missing poll or choice is also a 400, keyed by the
request field that named it (poll_id or choice_id). Unknown or non-integer
path ids are 404 {"detail": "Not found"}. Storage failures are 500 with a
fixed detail message.

# Sessions

CastVote resolves the session cookie before validating. A request without a
valid cookie gets a fresh session id, and the Set-Cookie header is written
whatever the outcome of the vote.
*/
package handlers
