// Package handler provides typed HTTP handlers for the JSON API.
//
// A HandlerFunc receives a Context and a request value populated by
// binders, and returns a Response. Wrap adapts it to http.HandlerFunc,
// applying decorators (for example the passcode guard) and routing every
// failure through a single ErrorHandler that renders the JSON envelope:
//
//	{"ok": false, "error": {"code": "invalid_or_expired", "message": "..."}}
//
// Successful responses use the same envelope with "ok": true and "data".
package handler
