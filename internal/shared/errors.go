package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrStoreUnavailable = fmt.Errorf("record store unavailable")
	ErrRecordNotFound   = fmt.Errorf("funeral service not found")
	ErrAmbiguousRecord  = fmt.Errorf("funeral service lookup matched more than one row")
	ErrWriteFailed      = fmt.Errorf("funeral service was not saved")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
