package connfile

import (
	"errors"
	"fmt"
	"strings"

	"ConnKeeper/internal/schema"
)

// Категории ошибок декодирования; сравнивать через errors.Is.
var (
	ErrUnsupportedVersion   = errors.New("unsupported document version")
	ErrMalformedDocument    = errors.New("malformed document")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrDecryptionFailed     = errors.New("decryption failed")
)

// DecodeError несёт категорию и контекст: узел, атрибут, версию схемы.
type DecodeError struct {
	Kind      error
	Node      string
	Attribute string
	Version   schema.Version
	Cause     error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Node != "" {
		fmt.Fprintf(&b, ": node %q", e.Node)
	}
	if e.Attribute != "" {
		fmt.Fprintf(&b, ": attribute %s", e.Attribute)
	}
	fmt.Fprintf(&b, " (version %s)", e.Version)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func malformed(v schema.Version, node, attr string, cause error) *DecodeError {
	return &DecodeError{Kind: ErrMalformedDocument, Node: node, Attribute: attr, Version: v, Cause: cause}
}
