package console

import (
	"context"

	"go.uber.org/zap"
)

// Expected is the context a caller requires before a mutating command.
// Empty fields carry no expectation.
type Expected struct {
	OrgID     string
	ProjectID string
}

// SelectFunc re-selects an entity by id and reports success.
type SelectFunc func(ctx context.Context, id string) bool

// Reconciler compares a live console-where snapshot against an expected
// context and re-selects only when the two provably differ. Another
// process can move the CLI's selection at any time, so every guarded
// operation re-checks before acting.
//
// The mismatch policy is deliberately conservative: a false "already
// matches" would run operations against the wrong project, while a false
// "needs re-select" only costs one extra CLI round-trip. Ambiguity
// therefore always resolves toward re-selecting.
type Reconciler struct {
	cache *EntityCache
	fetch func(ctx context.Context) (*WhereSnapshot, error)
	log   *zap.Logger
}

// NewReconciler builds a Reconciler. fetch retrieves a fresh snapshot
// when the caller does not inject one.
func NewReconciler(cache *EntityCache, fetch func(ctx context.Context) (*WhereSnapshot, error), log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{cache: cache, fetch: fetch, log: log}
}

// EnsureContext returns true when the CLI's live selection satisfies
// expected, re-selecting through the callbacks where it does not. Org
// success gates the project attempt; a failed callback short-circuits.
func (r *Reconciler) EnsureContext(ctx context.Context, expected Expected, snap *WhereSnapshot, selectOrg, selectProject SelectFunc) bool {
	if expected.OrgID == "" && expected.ProjectID == "" {
		return true
	}

	if snap == nil {
		cached, ok := r.cache.Where()
		if ok {
			snap = cached
		} else {
			fresh, err := r.fetch(ctx)
			if err != nil {
				// Cannot observe the live selection; treat every level as
				// mismatched and let the callbacks repair it.
				r.log.Debug("console where unavailable, forcing re-selection", zap.Error(err))
				snap = &WhereSnapshot{}
			} else {
				snap = fresh
				r.cache.SetWhere(fresh)
			}
		}
	}

	if expected.OrgID != "" && snap.Org.ContextID() != expected.OrgID {
		if selectOrg == nil || !selectOrg(ctx, expected.OrgID) {
			r.log.Debug("org re-selection failed", zap.String("org", expected.OrgID))
			return false
		}
	}

	if expected.ProjectID == "" {
		return true
	}
	if r.projectSatisfied(snap.Project, expected.ProjectID) {
		return true
	}
	if selectProject == nil || !selectProject(ctx, expected.ProjectID) {
		r.log.Debug("project re-selection failed", zap.String("project", expected.ProjectID))
		return false
	}
	return true
}

// projectSatisfied decides whether the observed project field already
// matches the expected id. A structured field compares by id. A bare
// display name is resolved through the cached current-project entry: the
// name must match AND the cached id must equal the expectation. A cached
// project with a different id, or no cached project to verify against,
// is a mismatch.
func (r *Reconciler) projectSatisfied(observed ContextField, expectedID string) bool {
	switch observed.Kind {
	case FieldEntity:
		return observed.ID == expectedID
	case FieldName:
		cached, ok := r.cache.CurrentProject()
		if !ok {
			return false
		}
		return cached.Name == observed.Name && cached.ID == expectedID
	default:
		return false
	}
}
