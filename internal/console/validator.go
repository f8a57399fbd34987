package console

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/demoforge/aioctx/internal/aio"
)

// DeveloperRoleMessage is surfaced when the signed-in user lacks the
// Console role needed to work with App Builder projects.
const DeveloperRoleMessage = "Your account does not have the Developer role in this organization. " +
	"Ask a system administrator to grant you the Developer role in the Adobe Admin Console."

// validatorRetryDelay spaces the single retry of a failed access check.
const validatorRetryDelay = 500 * time.Millisecond

// Validator confirms the currently selected organization still grants
// access. It runs opportunistically before operations that would
// otherwise fail with a confusing CLI error deep in a longer flow.
type Validator struct {
	runner     aio.Runner
	cache      *EntityCache
	fetch      func(ctx context.Context) (*WhereSnapshot, error)
	log        *zap.Logger
	retryDelay time.Duration
}

// NewValidator builds a Validator. fetch retrieves a console-where
// snapshot on cache miss.
func NewValidator(runner aio.Runner, cache *EntityCache, fetch func(ctx context.Context) (*WhereSnapshot, error), log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{runner: runner, cache: cache, fetch: fetch, log: log, retryDelay: validatorRetryDelay}
}

// ValidateOrganizationAccess probes the selected org with a lightweight
// project listing. An org with zero projects is still a valid org. A
// timeout is treated as valid: a transient network hiccup must never
// lock the user out of an org that is probably fine (fail-open).
func (v *Validator) ValidateOrganizationAccess(ctx context.Context) bool {
	res, err := v.runner.Run(ctx, aio.ProjectList()...)
	if err != nil {
		if IsTimeoutMessage(err.Error()) {
			return true
		}
		v.log.Debug("org access probe failed to run", zap.Error(err))
		return false
	}
	if res.Code == 0 {
		return true
	}

	msg := res.Combined()
	switch {
	case IsEmptyListMessage(msg):
		return true
	case IsPermissionMessage(msg):
		return false
	case IsTimeoutMessage(msg):
		return true
	default:
		return false
	}
}

// TestDeveloperPermissions probes with an app listing. It returns whether
// the user appears to hold the Developer role and, when they do not, a
// remediation message. Failures that are not clearly permission-shaped
// (network, timeout) fail open: permissions are assumed present.
func (v *Validator) TestDeveloperPermissions(ctx context.Context) (bool, string) {
	res, err := v.runner.Run(ctx, aio.AppList()...)
	if err != nil {
		if IsPermissionMessage(err.Error()) {
			return false, DeveloperRoleMessage
		}
		return true, ""
	}
	if res.Code == 0 {
		return true, ""
	}
	if IsPermissionMessage(res.Combined()) {
		return false, DeveloperRoleMessage
	}
	return true, ""
}

// ValidateAndClearInvalidOrgContext checks that the selected org is still
// accessible and, when it provably is not, wipes all caches and raises
// the one-shot cleared flag so the UI can notify once. Validation is
// best-effort housekeeping: every internal error is swallowed and
// debug-logged, never surfaced to the caller.
func (v *Validator) ValidateAndClearInvalidOrgContext(ctx context.Context, force bool) {
	snap, ok := v.cache.Where()
	if !ok {
		fresh, err := v.fetch(ctx)
		if err != nil {
			v.log.Debug("org validation skipped: console where unavailable", zap.Error(err))
			return
		}
		snap = fresh
		v.cache.SetWhere(fresh)
	}

	orgIdentifier := snap.Org.ContextID()
	if orgIdentifier == "" {
		return
	}

	if !force {
		if cached, ok := v.cache.Validation(); ok && cached.OrgIdentifier == orgIdentifier {
			return
		}
	}

	// Retry once before concluding invalid; a single failed probe is as
	// likely to be transient as real.
	probe := func() error {
		if !v.ValidateOrganizationAccess(ctx) {
			return errors.New("organization not accessible")
		}
		return nil
	}
	err := backoff.Retry(probe, backoff.WithMaxRetries(backoff.NewConstantBackOff(v.retryDelay), 1))
	if err == nil {
		v.cache.SetValidation(ValidationResult{OrgIdentifier: orgIdentifier, IsValid: true})
		return
	}

	v.log.Warn("selected organization no longer accessible, clearing cached context",
		zap.String("org", orgIdentifier))
	v.cache.ClearAll()
	v.cache.SetOrgClearedDueToValidation(true)
}
