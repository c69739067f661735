// Package validator provides small composable validation rules.
//
// A Rule pairs a check with the ValidationError reported when the check
// fails. Apply runs a set of rules and returns ValidationErrors, which the
// HTTP layer renders as a 400 response with per-field details.
package validator
