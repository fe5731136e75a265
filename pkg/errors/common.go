package errors

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeUnableToDetectPlatform = "UNABLE_TO_DETECT_PLATFORM"
	CodeUnsupportedPlatform    = "UNSUPPORTED_PLATFORM"
	CodeUnsupportedVersion     = "UNSUPPORTED_VERSION"
	CodeDetectionParseFailure  = "DETECTION_PARSE_FAILURE"
	CodeCheckerFailure         = "CHECKER_FAILURE"
	CodeInvalidUsage           = "INVALID_USAGE"
)

// Types ////////////////////////////////////////

type CodedError interface {
	error
	Code() string
}

// UnableToDetectPlatformError is returned when no platform was requested and no
// detector recognised the source.
type UnableToDetectPlatformError struct {
	SourceDir string
}

func (e *UnableToDetectPlatformError) Error() string {
	if e.SourceDir == "" {
		return "Could not detect the platform of the source repository."
	}
	return fmt.Sprintf("Could not detect the platform of the source repository in '%s'.", e.SourceDir)
}

func (e *UnableToDetectPlatformError) Code() string { return CodeUnableToDetectPlatform }

// UnsupportedPlatformError is returned when an explicitly named platform does not
// exist or is disabled. Supported holds the enabled platform names in registry order.
type UnsupportedPlatformError struct {
	Requested string
	Supported []string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("'%s' platform is not supported. Supported platforms are: %s",
		e.Requested, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedPlatformError) Code() string { return CodeUnsupportedPlatform }

// UnsupportedVersionError is returned when a requested or detected version has no
// satisfying entry in the platform's supported set. An empty Requested means no
// version could be determined at all.
type UnsupportedVersionError struct {
	Platform  string
	Requested string
	Supported []string
}

func (e *UnsupportedVersionError) Error() string {
	if e.Requested == "" {
		return fmt.Sprintf("Couldn't detect a version for the platform '%s' in the repo.", e.Platform)
	}
	return fmt.Sprintf("Platform '%s' version '%s' is unsupported. Supported versions: %s",
		e.Platform, e.Requested, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedVersionError) Code() string { return CodeUnsupportedVersion }

// DetectionParseError is returned by a detector that found, but could not parse,
// a file it needs.
type DetectionParseError struct {
	Platform string
	File     string
	Err      error
}

func (e *DetectionParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s: %v", e.Platform, e.File, e.Err)
}

func (e *DetectionParseError) Unwrap() error { return e.Err }

func (e *DetectionParseError) Code() string { return CodeDetectionParseFailure }

// CheckerError records a checker failure. It is only ever logged.
type CheckerError struct {
	Checker string
	Phase   string
	Err     error
}

func (e *CheckerError) Error() string {
	return fmt.Sprintf("checker %s failed during %s: %v", e.Checker, e.Phase, e.Err)
}

func (e *CheckerError) Unwrap() error { return e.Err }

func (e *CheckerError) Code() string { return CodeCheckerFailure }

// InvalidUsageError reports contradictory or missing invocation input.
type InvalidUsageError struct {
	Field   string
	Message string
}

func (e *InvalidUsageError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *InvalidUsageError) Code() string { return CodeInvalidUsage }

// Error Creators ///////////////////////////////

func InvalidUsage(field, format string, args ...any) error {
	return &InvalidUsageError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Helpers //////////////////////////////////////

// Code returns the code of the first coded error in err's chain, or the empty string.
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}
	return ""
}

func IsUnableToDetectPlatform(err error) bool {
	return Code(err) == CodeUnableToDetectPlatform
}

func IsUnsupportedPlatform(err error) bool {
	return Code(err) == CodeUnsupportedPlatform
}

func IsUnsupportedVersion(err error) bool {
	return Code(err) == CodeUnsupportedVersion
}

func IsDetectionParseFailure(err error) bool {
	return Code(err) == CodeDetectionParseFailure
}

func IsInvalidUsage(err error) bool {
	return Code(err) == CodeInvalidUsage
}
