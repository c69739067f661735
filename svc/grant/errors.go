package grant

import "errors"

var (
	ErrUnauthorized    = errors.New("grant.unauthorized")
	ErrNotAdmin        = errors.New("grant.not_admin")
	ErrRevoked         = errors.New("grant.revoked")
	ErrWrongKind       = errors.New("grant.wrong_kind")
	ErrRevocationStore = errors.New("grant.revocation_store_failed")
)
