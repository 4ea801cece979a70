package formtree

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired    = "required"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodePattern     = "pattern"
	CodeInvalidEnum = "invalid_enum"
	// Custom wraps validator errors that are not Issues themselves.
	CodeCustom = "custom"
	// ValidationFailed is the fixed sentinel attached when a validator
	// panics or aborts instead of returning a result.
	CodeValidationFailed = "validation_failed"
)

// Issue represents a single validation entry attached to a field.
type Issue struct {
	Path    string // JSON Pointer (for example: /list/2/id).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Error implements error so validators can return an *Issue directly.
func (i *Issue) Error() string {
	if i == nil {
		return ""
	}
	if i.Message != "" {
		return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Message)
	}
	return fmt.Sprintf("%s at %s", i.Code, i.Path)
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /list/0/id
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// issueFromErr converts a validator result into the *Issue stored on a field.
// An *Issue passes through (path filled in when empty); Issues contribute their
// first entry; anything else is wrapped under CodeCustom.
func issueFromErr(path string, err error) *Issue {
	if err == nil {
		return nil
	}
	var one *Issue
	if errors.As(err, &one) && one != nil {
		out := *one
		if out.Path == "" {
			out.Path = path
		}
		return &out
	}
	if iss, ok := AsIssues(err); ok && len(iss) > 0 {
		out := iss[0]
		if out.Path == "" {
			out.Path = path
		}
		return &out
	}
	return &Issue{Path: path, Code: CodeCustom, Message: err.Error(), Cause: err}
}
