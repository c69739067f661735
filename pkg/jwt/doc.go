// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5.
//
// Service pins the algorithm, issuer and clock so callers only deal with
// their claims type:
//
//	svc, err := jwt.New(key, jwt.WithIssuer("folio"))
//	token, err := svc.Generate(claims)
//	err = svc.Parse(token, &claims) // ErrExpiredToken, ErrInvalidToken
//
// Extractors read the raw token from a request: a cookie, the
// Authorization header, or the first of several sources.
package jwt
