// Package session manages server-side sessions for signed-in end users.
//
// A session is created by Manager.Authenticate after federated sign-in and
// referenced by an opaque random token carried in an encrypted cookie.
// Sessions expire after IdleTimeout without activity or MaxLifetime in
// total. Activity timestamps are written by a background worker so the
// request path never blocks on them.
//
// Stores: MemoryStore for single-node use and tests, RedisStore for
// multi-instance deployments.
//
//	mgr := session.NewFromConfig(cfg,
//		session.WithStore(session.NewRedisStore(rdb, "")),
//		session.WithCookieManager(cookies),
//	)
//	defer mgr.Close()
//
//	r.Use(mgr.Middleware)
package session
