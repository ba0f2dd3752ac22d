// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON. Fields are kept as json.RawMessage so that
handlers can report a message per field instead of failing the whole body:

  - CreatePollRequest: question_text, pub_date, choices
  - CastVoteRequest: choice_id

# Response Types

  - PollResponse: id, question_text, pub_date, choices
  - ChoiceResponse: id, choice_text
  - DetailResponse: detail
  - FieldErrors: field -> messages

# Domain Types

  - Question: poll question and publication date
  - Choice: an answer belonging to exactly one question
  - Vote: one recorded vote, keyed by session
  - Poll: a question with its choices

Vote counts are stored but never part of a response.
*/
package models
