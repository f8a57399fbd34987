package console

import (
	"context"
	"strings"
	"sync"

	"github.com/demoforge/aioctx/internal/aio"
)

// fakeRunner is the in-memory CLI shim used across the console tests.
// Responses are keyed by the space-joined argument vector; unkeyed
// invocations succeed with empty output.
type fakeRunner struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]*aio.Result
	errs      map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: make(map[string]*aio.Result),
		errs:      make(map[string]error),
	}
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (*aio.Result, error) {
	key := strings.Join(args, " ")
	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.mu.Unlock()

	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	if res, ok := f.responses[key]; ok {
		return res, nil
	}
	return &aio.Result{Code: 0}, nil
}

func (f *fakeRunner) stub(command string, res *aio.Result) {
	f.responses[command] = res
}

func (f *fakeRunner) stubErr(command string, err error) {
	f.errs[command] = err
}

// callCount counts invocations whose joined args start with prefix.
func (f *fakeRunner) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
