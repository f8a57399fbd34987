package aio

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{
		"1234567890@AdobeOrg",
		"demo-project.stage",
		"Production",
		"a_b-c.d",
	}
	for _, id := range valid {
		if err := ValidateIdentifier(id); err != nil {
			t.Fatalf("%q should be accepted: %v", id, err)
		}
	}

	invalid := []string{
		"",
		"org; rm -rf /",
		"a b",
		"$(whoami)",
		"`id`",
		"org|cat",
		"org\nselect",
		"org&",
		"../etc/passwd",
	}
	for _, id := range invalid {
		if err := ValidateIdentifier(id); err == nil {
			t.Fatalf("%q should be rejected", id)
		}
	}
}

func TestSelectBuildersRejectBeforeBuilding(t *testing.T) {
	for name, build := range map[string]func(string) ([]string, error){
		"org":       OrgSelect,
		"project":   ProjectSelect,
		"workspace": WorkspaceSelect,
	} {
		if args, err := build("bad;id"); err == nil || args != nil {
			t.Fatalf("%s select must reject before building, got %v", name, args)
		}
		args, err := build("good-id")
		if err != nil {
			t.Fatalf("%s select: %v", name, err)
		}
		if got := strings.Join(args, " "); !strings.HasSuffix(got, "select good-id") {
			t.Fatalf("%s select vector = %q", name, got)
		}
	}
}

func TestAuthLoginForceFlag(t *testing.T) {
	if got := strings.Join(AuthLogin(false), " "); got != "auth login" {
		t.Fatalf("plain login = %q", got)
	}
	if got := strings.Join(AuthLogin(true), " "); got != "auth login -f" {
		t.Fatalf("forced login = %q", got)
	}
}

func TestConfigCommands(t *testing.T) {
	if got := strings.Join(ConfigGet(ConfigKeyToken), " "); got != "config get ims.contexts.cli.access_token.token" {
		t.Fatalf("config get = %q", got)
	}
	if got := strings.Join(ConfigDelete(ConfigKeyOrg), " "); got != "config delete console.org" {
		t.Fatalf("config delete = %q", got)
	}
}
