package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/demoforge/aioctx/internal/aio"
)

const (
	projectListCmd = "console project list --json"
	appListCmd     = "app list --json"
	whereCmd       = "console where --json"
)

func newTestValidator(runner *fakeRunner, c *EntityCache) *Validator {
	fetch := func(ctx context.Context) (*WhereSnapshot, error) {
		res, err := runner.Run(ctx, aio.Where()...)
		if err != nil {
			return nil, err
		}
		_ = res
		return &WhereSnapshot{Org: ContextField{Kind: FieldEntity, ID: "org1"}}, nil
	}
	v := NewValidator(runner, c, fetch, nil)
	v.retryDelay = time.Millisecond
	return v
}

func TestValidateOrganizationAccess(t *testing.T) {
	cases := []struct {
		name  string
		res   *aio.Result
		err   error
		valid bool
	}{
		{"success", &aio.Result{Code: 0, Stdout: "[]"}, nil, true},
		{"empty org marker", &aio.Result{Code: 1, Stderr: "Org Foo does not have any projects"}, nil, true},
		{"forbidden", &aio.Result{Code: 1, Stderr: "403 Forbidden"}, nil, false},
		{"access denied", &aio.Result{Code: 1, Stderr: "Access denied for this resource"}, nil, false},
		{"timeout fails open", &aio.Result{Code: 1, Stderr: "request timed out"}, nil, true},
		{"spawn timeout fails open", nil, errors.New("ETIMEDOUT"), true},
		{"other error", &aio.Result{Code: 1, Stderr: "something exploded"}, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runner := newFakeRunner()
			if tc.err != nil {
				runner.stubErr(projectListCmd, tc.err)
			} else {
				runner.stub(projectListCmd, tc.res)
			}
			v := newTestValidator(runner, newTestCache())
			if got := v.ValidateOrganizationAccess(context.Background()); got != tc.valid {
				t.Fatalf("valid=%v, want %v", got, tc.valid)
			}
		})
	}
}

func TestDeveloperPermissions(t *testing.T) {
	t.Run("permission error names the role", func(t *testing.T) {
		runner := newFakeRunner()
		runner.stub(appListCmd, &aio.Result{Code: 1, Stderr: "insufficient privileges"})
		v := newTestValidator(runner, newTestCache())

		ok, msg := v.TestDeveloperPermissions(context.Background())
		if ok {
			t.Fatalf("permission error must report missing permissions")
		}
		if !strings.Contains(msg, "Developer role") {
			t.Fatalf("remediation must name the required role, got %q", msg)
		}
	})

	t.Run("network failure fails open", func(t *testing.T) {
		runner := newFakeRunner()
		runner.stubErr(appListCmd, errors.New("connection reset"))
		v := newTestValidator(runner, newTestCache())

		ok, msg := v.TestDeveloperPermissions(context.Background())
		if !ok || msg != "" {
			t.Fatalf("non-permission failure must assume permissions, ok=%v msg=%q", ok, msg)
		}
	})

	t.Run("success", func(t *testing.T) {
		runner := newFakeRunner()
		runner.stub(appListCmd, &aio.Result{Code: 0, Stdout: "[]"})
		v := newTestValidator(runner, newTestCache())

		if ok, _ := v.TestDeveloperPermissions(context.Background()); !ok {
			t.Fatalf("clean exit means permissions present")
		}
	})
}

func TestValidateAndClearPersistentlyInvalidOrg(t *testing.T) {
	// A 403 on the initial probe and again on the retry confirms the org
	// is gone: caches are wiped and the one-shot flag fires exactly once.
	runner := newFakeRunner()
	runner.stub(projectListCmd, &aio.Result{Code: 1, Stderr: "403 Forbidden"})

	c := newTestCache()
	c.SetWhere(&WhereSnapshot{Org: ContextField{Kind: FieldEntity, ID: "org1"}})
	c.SetOrganizations([]Organization{{ID: "org1"}})
	v := newTestValidator(runner, c)

	v.ValidateAndClearInvalidOrgContext(context.Background(), false)

	if got := runner.callCount(projectListCmd); got != 2 {
		t.Fatalf("expected initial probe plus one retry, got %d", got)
	}
	if _, ok := c.Organizations(); ok {
		t.Fatalf("caches must be wiped on confirmed-invalid org")
	}
	if !c.TakeOrgClearedFlag() {
		t.Fatalf("cleared flag must be readable once")
	}
	if c.TakeOrgClearedFlag() {
		t.Fatalf("cleared flag must be one-shot")
	}
}

func TestValidateTransientFailureRecovers(t *testing.T) {
	// First probe fails, retry succeeds: nothing is cleared.
	runner := newFakeRunner()
	fail := &aio.Result{Code: 1, Stderr: "403 Forbidden"}
	okRes := &aio.Result{Code: 0, Stdout: "[]"}
	first := true
	seq := &sequenceRunner{inner: runner, next: func() *aio.Result {
		if first {
			first = false
			return fail
		}
		return okRes
	}}

	c := newTestCache()
	c.SetWhere(&WhereSnapshot{Org: ContextField{Kind: FieldEntity, ID: "org1"}})
	c.SetOrganizations([]Organization{{ID: "org1"}})
	v := NewValidator(seq, c, noFetch(t), nil)
	v.retryDelay = time.Millisecond

	v.ValidateAndClearInvalidOrgContext(context.Background(), false)

	if _, ok := c.Organizations(); !ok {
		t.Fatalf("a transient failure must not clear caches")
	}
	if c.TakeOrgClearedFlag() {
		t.Fatalf("flag must not fire on recovery")
	}
	if res, ok := c.Validation(); !ok || !res.IsValid || res.OrgIdentifier != "org1" {
		t.Fatalf("positive result should be cached, got %+v ok=%v", res, ok)
	}
}

func TestValidateHonorsCachedResult(t *testing.T) {
	runner := newFakeRunner()
	c := newTestCache()
	c.SetWhere(&WhereSnapshot{Org: ContextField{Kind: FieldEntity, ID: "org1"}})
	c.SetValidation(ValidationResult{OrgIdentifier: "org1", IsValid: true})
	v := newTestValidator(runner, c)

	v.ValidateAndClearInvalidOrgContext(context.Background(), false)

	if got := runner.callCount(projectListCmd); got != 0 {
		t.Fatalf("cached validation must suppress the probe, got %d calls", got)
	}
}

func TestValidateForceBypassesCache(t *testing.T) {
	runner := newFakeRunner()
	runner.stub(projectListCmd, &aio.Result{Code: 0, Stdout: "[]"})
	c := newTestCache()
	c.SetWhere(&WhereSnapshot{Org: ContextField{Kind: FieldEntity, ID: "org1"}})
	c.SetValidation(ValidationResult{OrgIdentifier: "org1", IsValid: true})
	v := newTestValidator(runner, c)

	v.ValidateAndClearInvalidOrgContext(context.Background(), true)

	if got := runner.callCount(projectListCmd); got != 1 {
		t.Fatalf("force must re-probe, got %d calls", got)
	}
}

func TestValidateNoSelectedOrgIsNoop(t *testing.T) {
	runner := newFakeRunner()
	c := newTestCache()
	c.SetWhere(&WhereSnapshot{})
	v := newTestValidator(runner, c)

	v.ValidateAndClearInvalidOrgContext(context.Background(), false)

	if got := runner.callCount(projectListCmd); got != 0 {
		t.Fatalf("nothing selected means nothing to validate, got %d calls", got)
	}
}

// sequenceRunner returns a different canned result per call for one
// command while delegating bookkeeping to the wrapped fakeRunner.
type sequenceRunner struct {
	inner *fakeRunner
	next  func() *aio.Result
}

func (s *sequenceRunner) Run(ctx context.Context, args ...string) (*aio.Result, error) {
	if strings.Join(args, " ") == projectListCmd {
		s.inner.mu.Lock()
		s.inner.calls = append(s.inner.calls, projectListCmd)
		s.inner.mu.Unlock()
		return s.next(), nil
	}
	return s.inner.Run(ctx, args...)
}
