// Package passcode issues and verifies short-lived numeric one-time codes
// delivered by email.
//
// A code is bound to a recipient and to the Flow it was issued for. Only a
// keyed hash of the code is persisted, and each recipient holds at most one
// live code: issuing again replaces the previous one. Verification consumes
// the code in the same store operation that matches it, so a code can be
// spent once even when several requests race for it.
//
// Basic usage:
//
//	store := passcode.NewPostgresStore(pool)
//	svc := passcode.NewService(store, sender, pepper,
//		passcode.WithLogger(log),
//		passcode.WithTTL(3*time.Minute),
//	)
//
//	flow := passcode.AdminFlow(cfg.AdminEmail)
//	if err := svc.Issue(ctx, flow, email); err != nil {
//		// ErrUnauthorizedRecipient, validator.ValidationErrors, ErrDelivery, ErrStore
//	}
//	if err := svc.Verify(ctx, flow, email, code); err != nil {
//		// ErrInvalidOrExpired for a wrong, used or expired code
//	}
//
// Four Store backends are provided: MemoryStore for tests and single-node
// development, PostgresStore, RedisStore and MongoStore. The Postgres and
// memory stores rely on Service.Sweep to purge expired rows; Redis and Mongo
// expire records natively.
package passcode
