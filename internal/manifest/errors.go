package manifest

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	ErrParse = errors.New("parse error")
	ErrIO    = errors.New("io error")
)

// Wrap tags err with kind and prefixes it with the operation and path, so the
// result reads "kind: op: path: cause" and still satisfies errors.Is for both
// the kind and the cause.
func Wrap(kind error, op, path string, err error) error {
	if kind == nil {
		kind = ErrIO
	}
	detail := buildDetail(op, path)
	switch {
	case err != nil && detail != "":
		return fmt.Errorf("%w: %s: %w", kind, detail, err)
	case err != nil:
		return fmt.Errorf("%w: %w", kind, err)
	case detail != "":
		return fmt.Errorf("%w: %s", kind, detail)
	default:
		return kind
	}
}

// ErrorKind reports which error kind err carries, or nil when it carries none.
func ErrorKind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrParse):
		return ErrParse
	case errors.Is(err, ErrIO):
		return ErrIO
	default:
		return nil
	}
}

func buildDetail(op, path string) string {
	parts := make([]string, 0, 2)
	if op = strings.TrimSpace(op); op != "" {
		parts = append(parts, op)
	}
	if path = strings.TrimSpace(path); path != "" {
		parts = append(parts, path)
	}
	return strings.Join(parts, ": ")
}
