package console

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResponseFormat reports CLI or SDK output that did not decode
// to the expected shape (e.g. project list JSON that is not an array).
var ErrInvalidResponseFormat = errors.New("unexpected response format from aio CLI")

// FetchError is a nonzero CLI exit on a fetch path that did not match a
// recognized empty-list marker. It carries the CLI's stderr verbatim.
type FetchError struct {
	Entity string // "organizations", "projects", "workspaces"
	Stderr string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to get %s: %s", e.Entity, strings.TrimSpace(e.Stderr))
}

// ValidationError reports a malformed identifier that was rejected before
// command construction.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s identifier %q", e.Field, e.Value)
}

// emptyProjectsMarker is the aio CLI's wording when an org exists but has
// no projects. A nonzero exit carrying it maps to an empty list, not an
// error.
const emptyProjectsMarker = "does not have any projects"

var permissionMarkers = []string{
	"permission",
	"unauthorized",
	"forbidden",
	"403",
	"access denied",
	"insufficient privileges",
}

var timeoutMarkers = []string{
	"timeout",
	"timed out",
	"etimedout",
}

// IsPermissionMessage reports whether s reads like a permission failure.
func IsPermissionMessage(s string) bool {
	return containsAny(s, permissionMarkers)
}

// IsTimeoutMessage reports whether s reads like a transport timeout.
func IsTimeoutMessage(s string) bool {
	return containsAny(s, timeoutMarkers)
}

// IsEmptyListMessage reports whether s is the CLI's empty-org wording.
func IsEmptyListMessage(s string) bool {
	return strings.Contains(strings.ToLower(s), emptyProjectsMarker)
}

func containsAny(s string, markers []string) bool {
	low := strings.ToLower(s)
	for _, m := range markers {
		if strings.Contains(low, m) {
			return true
		}
	}
	return false
}
