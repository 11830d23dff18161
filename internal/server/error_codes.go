package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidID       = 1003
	ErrCodeInvalidGroupKey = 1004
	ErrCodeMissingRequired = 1005
	ErrCodeEmptyBatch      = 1006
	ErrCodeTooManyFiles    = 1007
	ErrCodeInvalidCode     = 1008

	// Domain state (2xxx)
	ErrCodeItemNotFound  = 2001
	ErrCodeGroupNotFound = 2002
	ErrCodeNotAnImage    = 2101
	ErrCodeConflict      = 2102

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001

	// Internal/system (4xxx)
	ErrCodeInternal              = 4001
	ErrCodeStorageIO             = 4002
	ErrCodeStoreFailure          = 4003
	ErrCodeExtractionUnavailable = 4101
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 401:
		return ErrCodeUnauthorized
	case 404:
		return ErrCodeItemNotFound
	case 409:
		return ErrCodeConflict
	case 500:
		return ErrCodeInternal
	case 503:
		return ErrCodeExtractionUnavailable
	default:
		return 0
	}
}
