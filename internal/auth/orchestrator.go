// Package auth composes the cached authentication checks and the aio
// login/logout commands into one orchestrator.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/demoforge/aioctx/internal/aio"
	"github.com/demoforge/aioctx/internal/console"
)

// Orchestrator layers a cheap local token check, a cached auth-status
// memo, and best-effort org validation over the aio auth commands.
type Orchestrator struct {
	runner    aio.Runner
	cache     *console.EntityCache
	sdk       console.SDKProvider // optional
	validator *console.Validator
	log       *zap.Logger

	authStatusTTL time.Duration
	now           func() time.Time
}

// New builds an Orchestrator. sdk may be nil; authStatusTTL <= 0 uses the
// cache default.
func New(runner aio.Runner, cache *console.EntityCache, sdk console.SDKProvider, validator *console.Validator, authStatusTTL time.Duration, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		runner:        runner,
		cache:         cache,
		sdk:           sdk,
		validator:     validator,
		log:           log,
		authStatusTTL: authStatusTTL,
		now:           time.Now,
	}
}

// IsAuthenticated is the cheap check: the locally stored token/expiry
// pair only, no network traffic. The result is memoized in the volatile
// auth-status slot.
func (o *Orchestrator) IsAuthenticated(ctx context.Context) (bool, error) {
	start := o.now()
	if status, ok := o.cache.AuthStatus(); ok {
		return status, nil
	}
	if insp, ok := o.cache.Token(); ok {
		o.cache.SetAuthStatus(insp.Valid, o.authStatusTTL)
		return insp.Valid, nil
	}

	st, err := readTokenState(ctx, o.runner)
	if err != nil {
		return false, err
	}
	valid := st.valid(o.now())

	o.cache.SetToken(console.TokenInspection{Valid: valid, ExpiresAt: st.ExpiryMS})
	o.cache.SetAuthStatus(valid, o.authStatusTTL)
	o.log.Debug("auth check",
		zap.Bool("authenticated", valid),
		zap.Duration("took", o.now().Sub(start)))
	return valid, nil
}

// IsFullyAuthenticated runs the token check plus a best-effort validation
// of the selected org's accessibility. The SDK is never initialized
// here; this sits on hot paths that must stay cheap.
func (o *Orchestrator) IsFullyAuthenticated(ctx context.Context) (bool, error) {
	start := o.now()
	ok, err := o.IsAuthenticated(ctx)
	if err != nil || !ok {
		return false, err
	}
	if o.validator != nil {
		o.validator.ValidateAndClearInvalidOrgContext(ctx, false)
	}
	o.log.Debug("full auth check", zap.Duration("took", o.now().Sub(start)))
	return true, nil
}

// Login runs the aio login flow. A forced login first drops every cache
// and the SDK client. A normal login whose resulting token still fails
// the plausibility check is retried once with the force flag, which
// covers a half-expired session the CLI refuses to refresh voluntarily.
func (o *Orchestrator) Login(ctx context.Context, force bool) error {
	start := o.now()

	if force {
		o.cache.ClearAll()
		if o.sdk != nil {
			o.sdk.Clear()
		}
		if err := o.runLogin(ctx, true); err != nil {
			return err
		}
	} else {
		if err := o.runLogin(ctx, false); err != nil {
			return err
		}
		st, err := readTokenState(ctx, o.runner)
		if err != nil || !st.valid(o.now()) {
			o.log.Debug("token invalid after login, forcing")
			if err := o.runLogin(ctx, true); err != nil {
				return err
			}
		}
	}

	// Always clear this trio together after a successful login. Leaving a
	// stale token inspection behind makes the next check report a dead
	// session that the login just replaced.
	o.cache.ClearAuthCaches()
	o.log.Debug("login complete",
		zap.Bool("forced", force),
		zap.Duration("took", o.now().Sub(start)))
	return nil
}

// Logout runs aio auth logout and drops the SDK client and session
// pointers. Execution failures propagate unmodified; a failed logout is
// something the caller must see.
func (o *Orchestrator) Logout(ctx context.Context) error {
	res, err := o.runner.Run(ctx, aio.AuthLogout()...)
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return fmt.Errorf("logout failed: %s", strings.TrimSpace(res.Combined()))
	}

	if o.sdk != nil {
		o.sdk.Clear()
	}
	o.cache.ClearSessionCaches()
	o.cache.ClearAuthCaches()
	return nil
}

func (o *Orchestrator) runLogin(ctx context.Context, force bool) error {
	res, err := o.runner.Run(ctx, aio.AuthLogin(force)...)
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return fmt.Errorf("login failed: %s", strings.TrimSpace(res.Combined()))
	}
	return nil
}
