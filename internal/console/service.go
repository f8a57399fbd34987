package console

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/demoforge/aioctx/internal/aio"
)

// Service orchestrates org/project/workspace retrieval and selection:
// cache first, SDK when one is available, CLI as the fallback, with
// context reconciliation guarding every selection that names a parent.
type Service struct {
	runner aio.Runner
	cache  *EntityCache
	sdk    SDKProvider // optional; nil means CLI-only
	rec    *Reconciler
	log    *zap.Logger
}

// NewService wires a Service and its reconciler. sdk may be nil.
func NewService(runner aio.Runner, cache *EntityCache, sdk SDKProvider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{runner: runner, cache: cache, sdk: sdk, log: log}
	s.rec = NewReconciler(cache, s.FetchWhere, log)
	return s
}

// Reconciler exposes the service's reconciler for callers that guard
// their own operations.
func (s *Service) Reconciler() *Reconciler { return s.rec }

// Cache exposes the underlying entity cache.
func (s *Service) Cache() *EntityCache { return s.cache }

// FetchWhere always asks the CLI for the live selection. Most callers
// want Where, which consults the cached snapshot first.
func (s *Service) FetchWhere(ctx context.Context) (*WhereSnapshot, error) {
	res, err := s.runner.Run(ctx, aio.Where()...)
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		return nil, &FetchError{Entity: "console context", Stderr: res.Combined()}
	}
	var snap WhereSnapshot
	if err := json.Unmarshal([]byte(res.Stdout), &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	return &snap, nil
}

// Where returns the cached console-where snapshot, fetching and caching
// a fresh one on miss.
func (s *Service) Where(ctx context.Context) (*WhereSnapshot, error) {
	if snap, ok := s.cache.Where(); ok {
		return snap, nil
	}
	snap, err := s.FetchWhere(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetWhere(snap)
	return snap, nil
}

// sdkReady reports whether an SDK client can serve this call, lazily
// initializing on first use. Initialization failure is not an error
// here; the CLI fallback covers it.
func (s *Service) sdkReady(ctx context.Context) bool {
	if s.sdk == nil {
		return false
	}
	if s.sdk.IsInitialized() {
		return true
	}
	if err := s.sdk.EnsureInitialized(ctx); err != nil {
		s.log.Debug("sdk init failed, using CLI", zap.Error(err))
		return false
	}
	return true
}

// GetOrganizations returns the org list from cache, SDK, or CLI.
func (s *Service) GetOrganizations(ctx context.Context) ([]Organization, error) {
	if orgs, ok := s.cache.Organizations(); ok {
		return orgs, nil
	}

	if s.sdkReady(ctx) {
		orgs, err := s.sdk.Client().GetOrganizations(ctx)
		if err == nil {
			s.cache.SetOrganizations(orgs)
			return orgs, nil
		}
		s.log.Debug("sdk org fetch failed, falling back to CLI", zap.Error(err))
	}

	orgs, err := fetchList[Organization](ctx, s.runner, aio.OrgList(), "organizations")
	if err != nil {
		return nil, err
	}
	s.cache.SetOrganizations(orgs)
	return orgs, nil
}

// GetProjects returns the org's project list from cache, SDK, or CLI.
// The CLI lists projects of the currently selected org, so callers are
// expected to have org selected (or reconciled) beforehand.
func (s *Service) GetProjects(ctx context.Context, org Organization) ([]Project, error) {
	if projects, ok := s.cache.Projects(org.ID); ok {
		return projects, nil
	}

	if s.sdkReady(ctx) {
		projects, err := s.sdk.Client().GetProjectsForOrg(ctx, org.Code)
		if err == nil {
			s.cache.SetProjects(org.ID, projects)
			return projects, nil
		}
		s.log.Debug("sdk project fetch failed, falling back to CLI", zap.Error(err))
	}

	projects, err := fetchList[Project](ctx, s.runner, aio.ProjectList(), "projects")
	if err != nil {
		return nil, err
	}
	s.cache.SetProjects(org.ID, projects)
	return projects, nil
}

// GetWorkspaces returns the project's workspace list from cache, SDK, or
// CLI.
func (s *Service) GetWorkspaces(ctx context.Context, org Organization, project Project) ([]Workspace, error) {
	if workspaces, ok := s.cache.Workspaces(org.ID, project.ID); ok {
		return workspaces, nil
	}

	if s.sdkReady(ctx) {
		workspaces, err := s.sdk.Client().GetWorkspacesForProject(ctx, org.Code, project.ID)
		if err == nil {
			s.cache.SetWorkspaces(org.ID, project.ID, workspaces)
			return workspaces, nil
		}
		s.log.Debug("sdk workspace fetch failed, falling back to CLI", zap.Error(err))
	}

	workspaces, err := fetchList[Workspace](ctx, s.runner, aio.WorkspaceList(), "workspaces")
	if err != nil {
		return nil, err
	}
	s.cache.SetWorkspaces(org.ID, project.ID, workspaces)
	return workspaces, nil
}

// fetchList runs a CLI list command and decodes its JSON array output.
// A nonzero exit carrying the recognized empty marker maps to an empty
// list; any other nonzero exit is a FetchError.
func fetchList[T any](ctx context.Context, runner aio.Runner, args []string, entity string) ([]T, error) {
	res, err := runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		if IsEmptyListMessage(res.Combined()) {
			return []T{}, nil
		}
		return nil, &FetchError{Entity: entity, Stderr: res.Combined()}
	}
	var list []T
	if err := json.Unmarshal([]byte(res.Stdout), &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponseFormat, entity, err)
	}
	return list, nil
}

// GetCurrentOrganization resolves the currently selected org: pointer
// slot, then the where snapshot, then name resolution against the cached
// org list. An unresolvable name yields a displayable placeholder whose
// id is the name itself; resolution is deferred, not failed.
func (s *Service) GetCurrentOrganization(ctx context.Context) (*Organization, error) {
	if org, ok := s.cache.CurrentOrganization(); ok {
		return &org, nil
	}

	snap, err := s.Where(ctx)
	if err != nil {
		return nil, err
	}

	switch snap.Org.Kind {
	case FieldEntity:
		org := Organization{ID: snap.Org.ID, Code: snap.Org.Code, Name: snap.Org.Name}
		if org.Code == "" {
			org.Code = org.ID
		}
		s.cache.SetCurrentOrganization(org)
		return &org, nil
	case FieldName:
		if orgs, ok := s.cache.Organizations(); ok {
			for _, org := range orgs {
				if org.Name == snap.Org.Name {
					s.cache.SetCurrentOrganization(org)
					return &org, nil
				}
			}
		}
		name := snap.Org.Name
		return &Organization{ID: name, Code: name, Name: name}, nil
	default:
		return nil, nil
	}
}

// GetCurrentProject resolves the currently selected project, using the
// current org's cached project list to recover an id from a name-only
// snapshot field.
func (s *Service) GetCurrentProject(ctx context.Context) (*Project, error) {
	if p, ok := s.cache.CurrentProject(); ok {
		return &p, nil
	}

	snap, err := s.Where(ctx)
	if err != nil {
		return nil, err
	}

	switch snap.Project.Kind {
	case FieldEntity:
		p := Project{ID: snap.Project.ID, Name: snap.Project.Name}
		s.cache.SetCurrentProject(p)
		return &p, nil
	case FieldName:
		if org, ok := s.cache.CurrentOrganization(); ok {
			if projects, ok := s.cache.Projects(org.ID); ok {
				for _, p := range projects {
					if p.Name == snap.Project.Name {
						s.cache.SetCurrentProject(p)
						return &p, nil
					}
				}
			}
		}
		name := snap.Project.Name
		return &Project{ID: name, Name: name}, nil
	default:
		return nil, nil
	}
}

// GetCurrentWorkspace resolves the currently selected workspace.
func (s *Service) GetCurrentWorkspace(ctx context.Context) (*Workspace, error) {
	if w, ok := s.cache.CurrentWorkspace(); ok {
		return &w, nil
	}

	snap, err := s.Where(ctx)
	if err != nil {
		return nil, err
	}

	switch snap.Workspace.Kind {
	case FieldEntity:
		w := Workspace{ID: snap.Workspace.ID, Name: snap.Workspace.Name}
		s.cache.SetCurrentWorkspace(w)
		return &w, nil
	case FieldName:
		org, okOrg := s.cache.CurrentOrganization()
		project, okProject := s.cache.CurrentProject()
		if okOrg && okProject {
			if workspaces, ok := s.cache.Workspaces(org.ID, project.ID); ok {
				for _, w := range workspaces {
					if w.Name == snap.Workspace.Name {
						s.cache.SetCurrentWorkspace(w)
						return &w, nil
					}
				}
			}
		}
		name := snap.Workspace.Name
		return &Workspace{ID: name, Name: name}, nil
	default:
		return nil, nil
	}
}

// SelectOrganization switches the CLI's selected org. Selection is
// speculative by design: every failure, validation included, is reported
// as false rather than an error.
func (s *Service) SelectOrganization(ctx context.Context, id string) bool {
	args, err := aio.OrgSelect(id)
	if err != nil {
		s.log.Debug("org select rejected", zap.Error(err))
		return false
	}
	res, err := s.runner.Run(ctx, args...)
	if err != nil || res.Code != 0 {
		s.log.Debug("org select failed", zap.String("org", id))
		return false
	}

	// Everything downstream of the org is now stale. The global org list
	// survives on purpose.
	s.cache.InvalidateForOrg(id)
	s.cache.ClearWhere()
	s.cache.SetCurrentOrganization(s.resolveOrg(id))
	s.clearCurrentProjectAndWorkspace()
	return true
}

// SelectProject switches the CLI's selected project. When expectedOrgID
// is set the reconciler runs first and a failed org reconciliation
// aborts without issuing the select.
func (s *Service) SelectProject(ctx context.Context, id, expectedOrgID string) bool {
	if err := aio.ValidateIdentifier(id); err != nil {
		s.log.Debug("project select rejected", zap.Error(err))
		return false
	}
	if expectedOrgID != "" {
		ok := s.rec.EnsureContext(ctx, Expected{OrgID: expectedOrgID}, nil, s.reselectOrg, nil)
		if !ok {
			return false
		}
	}
	return s.selectProjectRaw(ctx, id, expectedOrgID)
}

// SelectWorkspace switches the CLI's selected workspace after reconciling
// both parent levels.
func (s *Service) SelectWorkspace(ctx context.Context, id, expectedOrgID, expectedProjectID string) bool {
	args, err := aio.WorkspaceSelect(id)
	if err != nil {
		s.log.Debug("workspace select rejected", zap.Error(err))
		return false
	}
	if expectedOrgID != "" || expectedProjectID != "" {
		expected := Expected{OrgID: expectedOrgID, ProjectID: expectedProjectID}
		ok := s.rec.EnsureContext(ctx, expected, nil, s.reselectOrg, func(ctx context.Context, projectID string) bool {
			return s.selectProjectRaw(ctx, projectID, expectedOrgID)
		})
		if !ok {
			return false
		}
	}

	res, err := s.runner.Run(ctx, args...)
	if err != nil || res.Code != 0 {
		s.log.Debug("workspace select failed", zap.String("workspace", id))
		return false
	}

	s.cache.ClearWhere()
	s.cache.SetCurrentWorkspace(s.resolveWorkspace(id, expectedOrgID, expectedProjectID))
	return true
}

// selectProjectRaw issues the select without reconciliation. The
// reconciler itself re-selects through this path.
func (s *Service) selectProjectRaw(ctx context.Context, id, orgID string) bool {
	args, err := aio.ProjectSelect(id)
	if err != nil {
		s.log.Debug("project select rejected", zap.Error(err))
		return false
	}
	res, err := s.runner.Run(ctx, args...)
	if err != nil || res.Code != 0 {
		s.log.Debug("project select failed", zap.String("project", id))
		return false
	}

	// Only workspace caches are downstream of a project change.
	if orgID == "" {
		if org, ok := s.cache.CurrentOrganization(); ok {
			orgID = org.ID
		}
	}
	if orgID != "" {
		s.cache.InvalidateForProject(orgID, id)
	} else {
		s.cache.InvalidateAllWorkspaces()
	}
	s.cache.ClearWhere()
	s.cache.SetCurrentProject(s.resolveProject(id, orgID))
	s.cache.ClearCurrentWorkspace()
	return true
}

func (s *Service) reselectOrg(ctx context.Context, id string) bool {
	return s.SelectOrganization(ctx, id)
}

// AutoSelectOrganizationIfNeeded resolves an org without prompting when
// the choice is unambiguous. Exactly one visible org is selected and
// returned; zero or many returns nil and the caller prompts. A zero-org
// list additionally scrubs the CLI's persisted selection so it stops
// reporting a selection that no longer corresponds to any accessible
// org — credentials are deliberately left alone.
func (s *Service) AutoSelectOrganizationIfNeeded(ctx context.Context, skipCurrentCheck bool) (*Organization, error) {
	if !skipCurrentCheck {
		current, err := s.GetCurrentOrganization(ctx)
		if err == nil && current != nil {
			return current, nil
		}
	}

	orgs, err := s.GetOrganizations(ctx)
	if err != nil {
		return nil, err
	}

	switch len(orgs) {
	case 0:
		s.clearPersistedSelection(ctx)
		s.cache.ClearWhere()
		return nil, nil
	case 1:
		org := orgs[0]
		if !s.SelectOrganization(ctx, org.Identifier()) {
			return nil, nil
		}
		return &org, nil
	default:
		return nil, nil
	}
}

// clearPersistedSelection deletes the CLI's stored org/project/workspace
// selection. The three deletions are independent, so they run
// concurrently, and one failing does not stop the others.
func (s *Service) clearPersistedSelection(ctx context.Context) {
	keys := []string{aio.ConfigKeyOrg, aio.ConfigKeyProject, aio.ConfigKeyWorkspace}

	g, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		key := key
		g.Go(func() error {
			if _, err := s.runner.Run(ctx, aio.ConfigDelete(key)...); err != nil {
				s.log.Debug("config delete failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) resolveOrg(id string) Organization {
	if orgs, ok := s.cache.Organizations(); ok {
		for _, org := range orgs {
			if org.ID == id || org.Code == id {
				return org
			}
		}
	}
	return Organization{ID: id, Code: id}
}

func (s *Service) resolveProject(id, orgID string) Project {
	if orgID != "" {
		if projects, ok := s.cache.Projects(orgID); ok {
			for _, p := range projects {
				if p.ID == id {
					return p
				}
			}
		}
	}
	return Project{ID: id, OrgID: orgID}
}

func (s *Service) resolveWorkspace(id, orgID, projectID string) Workspace {
	if orgID != "" && projectID != "" {
		if workspaces, ok := s.cache.Workspaces(orgID, projectID); ok {
			for _, w := range workspaces {
				if w.ID == id {
					return w
				}
			}
		}
	}
	return Workspace{ID: id}
}

func (s *Service) clearCurrentProjectAndWorkspace() {
	s.cache.ClearCurrentProject()
	s.cache.ClearCurrentWorkspace()
}
