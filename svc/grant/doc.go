// Package grant bridges the two ways a request can be authorized.
//
// End users hold a server-side session created by federated sign-in; the
// single operator holds an admin grant, a signed token obtained through the
// passcode flow and carried in the admin_token cookie. Each mechanism is a
// Provider. A Bridge picks the provider by route prefix, so handlers only
// ever ask RequireAuthorization for the Grant of the current request and
// never see which mechanism produced it.
//
//	bridge := grant.NewBridge(grant.WithBridgeLogger(log)).
//		Route("/admin", adminIssuer).
//		Public("/admin/auth").
//		Route("/me", grant.NewSessionProvider(sessions))
//
//	r.Use(bridge.Middleware)
//
// The admin grant has no refresh. It ends when the token expires or when
// AdminIssuer.Revoke records its id in the RevocationStore; a new grant
// always needs a new passcode.
package grant
