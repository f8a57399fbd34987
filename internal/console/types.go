// Package console tracks the Adobe I/O CLI's org/project/workspace
// selection: typed caches over the CLI's responses, reconciliation of the
// live selection against a caller's expectation, and validation of the
// currently selected organization.
package console

import (
	"encoding/json"
	"fmt"
)

// Organization as reported by `aio console org list --json`. Code is the
// CLI-facing identifier (e.g. "1234@AdobeOrg"); ID may be a numeric string.
type Organization struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Identifier returns the value used for equality checks: ID when present,
// otherwise the name.
func (o Organization) Identifier() string {
	if o.ID != "" {
		return o.ID
	}
	return o.Name
}

// Project belongs to an organization.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	OrgID       string `json:"org_id,omitempty"`
}

// DisplayTitle falls back to the name when no title is set.
func (p Project) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// Workspace belongs to a project.
type Workspace struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// DisplayTitle falls back to the name when no title is set.
func (w Workspace) DisplayTitle() string {
	if w.Title != "" {
		return w.Title
	}
	return w.Name
}

// FieldKind tags a ContextField.
type FieldKind int

const (
	// FieldAbsent means the CLI reported nothing at this level.
	FieldAbsent FieldKind = iota
	// FieldEntity means the CLI returned a structured object with an id.
	FieldEntity
	// FieldName means the CLI returned a bare display name. The identity is
	// unknown; the name is only usable for string comparison after cache
	// resolution has been attempted.
	FieldName
)

// ContextField is one level of a console-where snapshot. `aio console
// where --json` inconsistently returns either a structured object or a
// bare display-name string per level; the tag is assigned once at decode
// time so nothing downstream re-inspects raw JSON shapes.
type ContextField struct {
	Kind FieldKind
	ID   string
	Code string
	Name string
}

// ContextID returns the best available comparison key: the id for a
// structured field, the display name for a name-only field, "" when
// absent.
func (f ContextField) ContextID() string {
	switch f.Kind {
	case FieldEntity:
		return f.ID
	case FieldName:
		return f.Name
	default:
		return ""
	}
}

// UnmarshalJSON accepts both shapes the CLI emits.
func (f *ContextField) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name == "" {
			*f = ContextField{Kind: FieldAbsent}
			return nil
		}
		*f = ContextField{Kind: FieldName, Name: name}
		return nil
	}

	var obj struct {
		ID   json.Number `json:"id"`
		Code string      `json:"code"`
		Name string      `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("console where field is neither string nor object: %w", err)
	}
	id := obj.ID.String()
	if id == "" && obj.Code != "" {
		id = obj.Code
	}
	if id == "" && obj.Name == "" {
		*f = ContextField{Kind: FieldAbsent}
		return nil
	}
	if id == "" {
		*f = ContextField{Kind: FieldName, Name: obj.Name}
		return nil
	}
	*f = ContextField{Kind: FieldEntity, ID: id, Code: obj.Code, Name: obj.Name}
	return nil
}

// WhereSnapshot is the decoded `aio console where --json` response.
type WhereSnapshot struct {
	Org       ContextField `json:"org"`
	Project   ContextField `json:"project"`
	Workspace ContextField `json:"workspace"`
}

// ValidationResult memoizes the last organization-accessibility check.
type ValidationResult struct {
	OrgIdentifier string
	IsValid       bool
}

// TokenInspection memoizes the last local token plausibility check.
type TokenInspection struct {
	Valid     bool
	ExpiresAt int64 // epoch milliseconds, 0 when the CLI stored no expiry
}
