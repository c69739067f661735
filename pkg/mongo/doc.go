// Package mongo connects to MongoDB with startup retries and exposes a
// readiness probe. It is only used when passcodes are stored in a document
// collection (PASSCODE_STORE=mongo).
package mongo
