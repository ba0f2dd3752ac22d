// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session issues and reads the per-browser session token used to
recognize repeat voters.

# Session IDs

Session ids are random (version 4) UUIDs:

	id, err := session.NewSessionID()

The id is stored with every vote and is the only key used to detect a
second vote on the same poll. It is not an authenticated identity.

# Cookies

The id travels in a cookie named session_id. The cookie value is an HS256
JWT carrying the id in the "sid" claim and expiring after seven days, so a
client cannot pick an arbitrary id:

	m := session.NewManager(cfg.SessionSecret, cfg.CookieSecure)
	sessionID, cookie, err := m.Resolve(r)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}

Cookies are HttpOnly, SameSite=Lax, Path=/ and Secure unless disabled for
local development. A missing, expired or tampered cookie is treated as
absent and a new session is issued.
*/
package session
