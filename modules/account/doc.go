// Package account mounts the end-user HTTP surface: federated sign-in,
// the signed-in user's profile and resources, account deletion confirmed
// by an emailed passcode, and public portfolio pages.
//
// Every route except sign-in, the template catalog and /p/{username}
// expects a session grant placed in the context by grant.Bridge.
//
//	r.Mount("/", account.New(account.Deps{...}).Handle())
package account
