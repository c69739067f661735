package audit

import "errors"

var (
	ErrEventValidation = errors.New("audit.event_validation_failed")
	ErrStorage         = errors.New("audit.storage_failed")
)
