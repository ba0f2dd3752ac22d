// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements poll creation, retrieval, and vote casting.

# Creating Polls

CreatePoll trims and validates the input, then writes the question and all
of its choices in one transaction:

	poll, err := svc.CreatePoll(ctx, polls.NewPoll{
		QuestionText: "Favorite color?",
		PubDate:      pubDate,
		Choices:      []string{"Red", "Blue"},
	})

At least two choices are required. Texts are limited to 200 characters.

# Voting

CastVote holds the (poll, session) lock, runs ValidateVote and then
RecordVote. Validation checks, in order:

 1. the poll exists (NotFoundError "poll")
 2. the choice exists (NotFoundError "choice")
 3. the choice belongs to the poll (ValidationError on choice_id)
 4. the session has not voted on the poll (ValidationError "already voted")

Step 4 is skipped for an empty session id. If two requests for the same
session pass step 4 together, the store's unique index rejects the second
insert and RecordVote reports it as "already voted".

# Errors

Callers inspect errors with errors.As:

  - *ValidationError: field keyed messages, maps to 400
  - *NotFoundError: missing poll or choice
  - *StorageError: persistence failure, maps to 500
*/
package polls
