package console

import (
	"fmt"
	"sync"
	"time"

	"github.com/demoforge/aioctx/internal/cache"
)

// Cache TTL bands. List fetches are expensive CLI round-trips and stay
// warm for tens of minutes; the where snapshot and token state change
// externally and stay volatile.
const (
	ListTTL       = 30 * time.Minute
	WhereTTL      = 30 * time.Second
	ValidationTTL = 5 * time.Minute
	TokenTTL      = time.Minute

	// DefaultAuthStatusTTL applies when the caller does not supply one.
	DefaultAuthStatusTTL = 30 * time.Second
)

const (
	keyOrgList          = "orgs"
	keyProjectPrefix    = "projects:"
	keyWorkspacePrefix  = "workspaces:"
	keyCurrentOrg       = "current:org"
	keyCurrentProject   = "current:project"
	keyCurrentWorkspace = "current:workspace"
	keyWhere            = "where"
	keyAuthStatus       = "auth:status"
	keyToken            = "auth:token"
	keyValidation       = "validation"
)

// EntityCache layers typed accessors for console entities over the TTL
// store. The current-* pointer slots carry no TTL: "currently selected"
// is a fact until logout or a selection change proves otherwise.
type EntityCache struct {
	store *cache.Store

	mu         sync.Mutex
	orgCleared bool
}

// NewEntityCache wraps the given store.
func NewEntityCache(store *cache.Store) *EntityCache {
	return &EntityCache{store: store}
}

func projectKey(orgID string) string {
	return keyProjectPrefix + orgID
}

func workspaceKey(orgID, projectID string) string {
	return fmt.Sprintf("%s%s:%s", keyWorkspacePrefix, orgID, projectID)
}

// Organizations returns the cached global org list.
func (c *EntityCache) Organizations() ([]Organization, bool) {
	v, ok := c.store.Get(keyOrgList)
	if !ok {
		return nil, false
	}
	orgs, ok := v.([]Organization)
	return orgs, ok
}

// SetOrganizations caches the global org list.
func (c *EntityCache) SetOrganizations(orgs []Organization) {
	c.store.Set(keyOrgList, orgs, ListTTL)
}

// Projects returns the cached project list for an org.
func (c *EntityCache) Projects(orgID string) ([]Project, bool) {
	v, ok := c.store.Get(projectKey(orgID))
	if !ok {
		return nil, false
	}
	projects, ok := v.([]Project)
	return projects, ok
}

// SetProjects caches the project list for an org.
func (c *EntityCache) SetProjects(orgID string, projects []Project) {
	c.store.Set(projectKey(orgID), projects, ListTTL)
}

// Workspaces returns the cached workspace list for an org/project pair.
func (c *EntityCache) Workspaces(orgID, projectID string) ([]Workspace, bool) {
	v, ok := c.store.Get(workspaceKey(orgID, projectID))
	if !ok {
		return nil, false
	}
	workspaces, ok := v.([]Workspace)
	return workspaces, ok
}

// SetWorkspaces caches the workspace list for an org/project pair.
func (c *EntityCache) SetWorkspaces(orgID, projectID string, workspaces []Workspace) {
	c.store.Set(workspaceKey(orgID, projectID), workspaces, ListTTL)
}

// CurrentOrganization returns the current-org pointer slot.
func (c *EntityCache) CurrentOrganization() (Organization, bool) {
	v, ok := c.store.Get(keyCurrentOrg)
	if !ok {
		return Organization{}, false
	}
	org, ok := v.(Organization)
	return org, ok
}

// SetCurrentOrganization updates the current-org pointer slot.
func (c *EntityCache) SetCurrentOrganization(org Organization) {
	c.store.Set(keyCurrentOrg, org, 0)
}

// CurrentProject returns the current-project pointer slot.
func (c *EntityCache) CurrentProject() (Project, bool) {
	v, ok := c.store.Get(keyCurrentProject)
	if !ok {
		return Project{}, false
	}
	p, ok := v.(Project)
	return p, ok
}

// SetCurrentProject updates the current-project pointer slot.
func (c *EntityCache) SetCurrentProject(p Project) {
	c.store.Set(keyCurrentProject, p, 0)
}

// ClearCurrentProject drops the current-project pointer slot.
func (c *EntityCache) ClearCurrentProject() {
	c.store.Clear(keyCurrentProject)
}

// CurrentWorkspace returns the current-workspace pointer slot.
func (c *EntityCache) CurrentWorkspace() (Workspace, bool) {
	v, ok := c.store.Get(keyCurrentWorkspace)
	if !ok {
		return Workspace{}, false
	}
	w, ok := v.(Workspace)
	return w, ok
}

// SetCurrentWorkspace updates the current-workspace pointer slot.
func (c *EntityCache) SetCurrentWorkspace(w Workspace) {
	c.store.Set(keyCurrentWorkspace, w, 0)
}

// ClearCurrentWorkspace drops the current-workspace pointer slot.
func (c *EntityCache) ClearCurrentWorkspace() {
	c.store.Clear(keyCurrentWorkspace)
}

// Where returns the cached console-where snapshot.
func (c *EntityCache) Where() (*WhereSnapshot, bool) {
	v, ok := c.store.Get(keyWhere)
	if !ok {
		return nil, false
	}
	snap, ok := v.(*WhereSnapshot)
	return snap, ok
}

// SetWhere caches a console-where snapshot.
func (c *EntityCache) SetWhere(snap *WhereSnapshot) {
	c.store.Set(keyWhere, snap, WhereTTL)
}

// ClearWhere drops the console-where snapshot.
func (c *EntityCache) ClearWhere() {
	c.store.Clear(keyWhere)
}

// AuthStatus returns the cached authentication check result.
func (c *EntityCache) AuthStatus() (bool, bool) {
	v, ok := c.store.Get(keyAuthStatus)
	if !ok {
		return false, false
	}
	status, ok := v.(bool)
	return status, ok
}

// SetAuthStatus caches an authentication check result with the supplied
// TTL. The slot is intentionally volatile: token state changes outside
// this process.
func (c *EntityCache) SetAuthStatus(authenticated bool, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultAuthStatusTTL
	}
	c.store.Set(keyAuthStatus, authenticated, ttl)
}

// Token returns the cached token inspection.
func (c *EntityCache) Token() (TokenInspection, bool) {
	v, ok := c.store.Get(keyToken)
	if !ok {
		return TokenInspection{}, false
	}
	t, ok := v.(TokenInspection)
	return t, ok
}

// SetToken caches a token inspection.
func (c *EntityCache) SetToken(t TokenInspection) {
	c.store.Set(keyToken, t, TokenTTL)
}

// Validation returns the cached org-validation result.
func (c *EntityCache) Validation() (ValidationResult, bool) {
	v, ok := c.store.Get(keyValidation)
	if !ok {
		return ValidationResult{}, false
	}
	r, ok := v.(ValidationResult)
	return r, ok
}

// SetValidation caches an org-validation result.
func (c *EntityCache) SetValidation(r ValidationResult) {
	c.store.Set(keyValidation, r, ValidationTTL)
}

// InvalidateForOrg clears the org's project list and every workspace list
// keyed under any of its projects. The global org list is deliberately
// left intact: switching back to a previously listed org is cheap.
func (c *EntityCache) InvalidateForOrg(orgID string) {
	c.store.Clear(projectKey(orgID))
	c.store.ClearPrefix(keyWorkspacePrefix + orgID + ":")
}

// InvalidateForProject clears only the project's workspace list. The
// parent org's project list stays cached.
func (c *EntityCache) InvalidateForProject(orgID, projectID string) {
	c.store.Clear(workspaceKey(orgID, projectID))
}

// InvalidateAllWorkspaces clears every cached workspace list. Used when a
// project selection changes but the owning org cannot be determined.
func (c *EntityCache) InvalidateAllWorkspaces() {
	c.store.ClearPrefix(keyWorkspacePrefix)
}

// ClearSessionCaches drops the current-* pointer slots only.
func (c *EntityCache) ClearSessionCaches() {
	c.store.Clear(keyCurrentOrg)
	c.store.Clear(keyCurrentProject)
	c.store.Clear(keyCurrentWorkspace)
}

// ClearPerformanceCaches drops the list and snapshot caches only.
func (c *EntityCache) ClearPerformanceCaches() {
	c.store.Clear(keyOrgList)
	c.store.ClearPrefix(keyProjectPrefix)
	c.store.ClearPrefix(keyWorkspacePrefix)
	c.store.Clear(keyWhere)
}

// ClearAuthCaches drops the auth-status, validation, and token-inspection
// slots. These three must always be cleared together after a login: a
// stale token inspection surviving a fresh login produces a false
// "session expired" on the next check.
func (c *EntityCache) ClearAuthCaches() {
	c.store.Clear(keyAuthStatus)
	c.store.Clear(keyValidation)
	c.store.Clear(keyToken)
}

// ClearAll wipes every cache entry. The org-cleared flag is not touched;
// it survives a wipe precisely so the wipe can be reported once.
func (c *EntityCache) ClearAll() {
	c.store.ClearAll()
}

// SetOrgClearedDueToValidation records that validation wiped the caches
// because the selected org became inaccessible.
func (c *EntityCache) SetOrgClearedDueToValidation(cleared bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orgCleared = cleared
}

// TakeOrgClearedFlag reads and clears the one-shot flag. Every call
// clears it, so two consecutive reads yield true then false unless it is
// re-set in between.
func (c *EntityCache) TakeOrgClearedFlag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.orgCleared
	c.orgCleared = false
	return v
}
