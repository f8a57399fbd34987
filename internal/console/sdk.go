package console

import "context"

// SDKClient is the alternate data source with the same contract as the
// CLI list commands. Implementations live outside this package.
type SDKClient interface {
	GetOrganizations(ctx context.Context) ([]Organization, error)
	GetProjectsForOrg(ctx context.Context, orgCode string) ([]Project, error)
	GetWorkspacesForProject(ctx context.Context, orgCode, projectID string) ([]Workspace, error)
}

// SDKProvider yields an initialized SDKClient on demand. EnsureInitialized
// must deduplicate concurrent initialization attempts and stay retryable
// after a failed attempt.
type SDKProvider interface {
	IsInitialized() bool
	EnsureInitialized(ctx context.Context) error
	Client() SDKClient
	Clear()
}
