// Package ratelimiter implements a token bucket limiter with in-memory and
// Redis stores. It guards passcode issuance: an HTTP middleware limits per
// client IP and Bucket.Take limits per recipient inside the service.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.Composite(
//		ratelimiter.Static("passcode"),
//		clientip.GetIP,
//	), nil)).Post("/admin/auth/code", issue)
package ratelimiter
