package safemx

import "errors"

var (
	ErrInvalidDomain = errors.New("safemx: invalid domain")
	ErrNoChecks      = errors.New("safemx: no checks requested")
)

// ErrorCode identifies why a check produced no parsed record.
type ErrorCode string

const (
	CodeNoSPF       ErrorCode = "NO_SPF"
	CodeNoDMARC     ErrorCode = "NO_DMARC"
	CodeNoDKIM      ErrorCode = "NO_DKIM"
	CodeMultipleSPF ErrorCode = "MULTIPLE_SPF"

	// CodeNXDomain means the queried name does not exist.
	CodeNXDomain ErrorCode = "NXDOMAIN"

	// CodeUnknown covers every other lookup failure.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// CheckError is a check-level failure. It is data carried in a CheckResult.
type CheckError struct {
	Code    ErrorCode
	Message string

	// Records holds the conflicting records for CodeMultipleSPF.
	Records []string
}

func (e *CheckError) Error() string {
	return e.Message
}
