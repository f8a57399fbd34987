package aio

import (
	"fmt"
	"regexp"
)

// identPattern is the allow-list for anything interpolated into an aio
// invocation: alphanumerics plus the punctuation Adobe identifiers
// actually use ("1234@AdobeOrg", "demo-project.stage"). Everything else,
// shell metacharacters included, is rejected before a command exists.
var identPattern = regexp.MustCompile(`^[A-Za-z0-9@._-]+$`)

// ValidateIdentifier rejects ids that fail the allow-list.
func ValidateIdentifier(id string) error {
	if id == "" || !identPattern.MatchString(id) {
		return fmt.Errorf("identifier %q contains disallowed characters", id)
	}
	return nil
}

// Fixed command surface. Selection builders return an error instead of a
// vector when the id fails validation.

func OrgList() []string       { return []string{"console", "org", "list", "--json"} }
func ProjectList() []string   { return []string{"console", "project", "list", "--json"} }
func WorkspaceList() []string { return []string{"console", "workspace", "list", "--json"} }
func Where() []string         { return []string{"console", "where", "--json"} }
func AppList() []string       { return []string{"app", "list", "--json"} }

func OrgSelect(id string) ([]string, error) {
	if err := ValidateIdentifier(id); err != nil {
		return nil, err
	}
	return []string{"console", "org", "select", id}, nil
}

func ProjectSelect(id string) ([]string, error) {
	if err := ValidateIdentifier(id); err != nil {
		return nil, err
	}
	return []string{"console", "project", "select", id}, nil
}

func WorkspaceSelect(id string) ([]string, error) {
	if err := ValidateIdentifier(id); err != nil {
		return nil, err
	}
	return []string{"console", "workspace", "select", id}, nil
}

func AuthLogin(force bool) []string {
	args := []string{"auth", "login"}
	if force {
		args = append(args, "-f")
	}
	return args
}

func AuthLogout() []string { return []string{"auth", "logout"} }

// ConfigGet reads a CLI config key, e.g. the stored IMS token.
func ConfigGet(key string) []string { return []string{"config", "get", key} }

// ConfigDelete removes a CLI config key.
func ConfigDelete(key string) []string { return []string{"config", "delete", key} }

// Persisted selection keys in the CLI's own config. The ims.* credential
// keys are never deleted by this tool.
const (
	ConfigKeyOrg       = "console.org"
	ConfigKeyProject   = "console.project"
	ConfigKeyWorkspace = "console.workspace"

	ConfigKeyToken       = "ims.contexts.cli.access_token.token"
	ConfigKeyTokenExpiry = "ims.contexts.cli.access_token.expiry"
)
