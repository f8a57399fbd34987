package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/demoforge/aioctx/internal/aio"
)

// minTokenLength is the plausibility threshold for a stored IMS access
// token; anything shorter is a fragment or an error payload.
const minTokenLength = 100

// tokenErrorMarker appears in the stored value when the CLI persisted an
// error response instead of a token.
const tokenErrorMarker = "error"

// tokenState is the locally stored token/expiry pair read from the CLI's
// config. Expiry is epoch milliseconds; 0 means none was stored.
type tokenState struct {
	Token    string
	ExpiryMS int64
}

// readTokenState reads the stored token and expiry. This is the only CLI
// traffic the cheap authentication check performs.
func readTokenState(ctx context.Context, runner aio.Runner) (tokenState, error) {
	tokenRes, err := runner.Run(ctx, aio.ConfigGet(aio.ConfigKeyToken)...)
	if err != nil {
		return tokenState{}, err
	}
	expiryRes, err := runner.Run(ctx, aio.ConfigGet(aio.ConfigKeyTokenExpiry)...)
	if err != nil {
		return tokenState{}, err
	}

	st := tokenState{Token: strings.TrimSpace(tokenRes.Stdout)}
	if ms, err := strconv.ParseInt(strings.TrimSpace(expiryRes.Stdout), 10, 64); err == nil {
		st.ExpiryMS = ms
	}
	return st, nil
}

// valid applies the plausibility rules: long enough, no error marker,
// and not past the stored expiry when one exists.
func (t tokenState) valid(now time.Time) bool {
	if len(t.Token) <= minTokenLength {
		return false
	}
	if strings.Contains(strings.ToLower(t.Token), tokenErrorMarker) {
		return false
	}
	if t.ExpiryMS > 0 && now.UnixMilli() >= t.ExpiryMS {
		return false
	}
	return true
}
