package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCaller marks invalid input from the invoker (empty title, busy
	// workspace). Never retried, surfaced directly.
	ErrCaller = errors.New("caller error")
	// ErrTransientProvider marks network failures and server-class provider
	// responses. Retried with bounded backoff before degrading.
	ErrTransientProvider = errors.New("transient provider failure")
	// ErrPermanentProvider marks auth, validation, and malformed-payload
	// failures. Degrades immediately without retry.
	ErrPermanentProvider = errors.New("permanent provider failure")
	// ErrToolchain marks assembly preconditions: media binary missing or an
	// empty manifest. Fatal to the assembly engine only.
	ErrToolchain = errors.New("toolchain precondition failure")
	// ErrAssembly marks a subprocess exiting non-zero during rendering,
	// concatenation, or muxing. Fatal to the assembly attempt.
	ErrAssembly = errors.New("assembly execution failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransientProvider
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind names the failure class of err for logs and run records.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCaller):
		return "caller"
	case errors.Is(err, ErrPermanentProvider):
		return "permanent_provider"
	case errors.Is(err, ErrToolchain):
		return "toolchain"
	case errors.Is(err, ErrAssembly):
		return "assembly"
	case errors.Is(err, ErrTransientProvider):
		return "transient_provider"
	default:
		return "unknown"
	}
}

// Retryable reports whether err may succeed on another attempt. Only
// transient provider failures qualify; everything else either degrades or
// aborts immediately.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrPermanentProvider) || errors.Is(err, ErrCaller) {
		return false
	}
	return errors.Is(err, ErrTransientProvider)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
