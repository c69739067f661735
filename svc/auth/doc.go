// Package auth signs end users in with Google or GitHub and turns the
// resulting session into a request Identity.
//
// SignIn drives the OAuth round trip. Begin stores a signed, short-lived
// state token in a cookie and returns the provider URL; Complete checks the
// state, resolves the provider profile, requires a verified email, creates
// the portfolio user on first sign-in and starts a session.
//
//	signin := auth.NewSignIn(portfolioSvc, sessions, cookies, stateKey,
//		auth.WithProvider(auth.NewGoogleAdapter(googleCfg)),
//		auth.WithProvider(auth.NewGitHubAdapter(githubCfg)),
//	)
//
// Materialize joins the session to the portfolio user by email. A session
// whose user row is gone still yields an Identity, just without a profile.
package auth
