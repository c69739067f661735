// Package redis connects to Redis with startup retries and exposes a
// readiness probe. The client it returns backs the redis implementations of
// the passcode store, the admin grant revocation list, sessions and rate
// limiting.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
