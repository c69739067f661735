// Package token creates compact HMAC-signed tokens carrying a JSON payload.
//
// Tokens are not encrypted; the payload is readable by the client. They are
// used where a server-side record would be overkill, such as the OAuth state
// cookie. Payloads implementing Expiring are rejected after their expiry.
package token
