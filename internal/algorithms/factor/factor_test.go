package factor

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/Aidin1998/algohost/internal/invoke"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func args(n any) invoke.Args {
	return invoke.NewArgs(map[string]any{ParamN: n})
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{TrialDivisionID, PollardRhoID} {
		_, ok := invoke.Default.Lookup(id)
		assert.True(t, ok, id)
	}
}

func TestFactorImplementations(t *testing.T) {
	cases := map[int64][]int64{
		2:                   {2},
		15:                  {3, 5},
		360:                 {2, 2, 2, 3, 3, 5},
		1_000_003:           {1_000_003},
		1_000_003 * 999_983: {999_983, 1_000_003},
		(1 << 21) * 3 * 7:   {2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 3, 7},
	}
	impls := map[string]invoke.Func{TrialDivisionID: Trial, PollardRhoID: Rho}

	for name, fn := range impls {
		for n, want := range cases {
			got, err := fn(context.Background(), args(json.Number(strconv.FormatInt(n, 10))))
			require.NoError(t, err, "%s(%d)", name, n)
			assert.Equal(t, Result{N: n, Factors: want}, got, "%s(%d)", name, n)
		}
	}
}

func TestFactorRejectsSmallN(t *testing.T) {
	for _, fn := range []invoke.Func{Trial, Rho} {
		_, err := fn(context.Background(), args(int64(1)))
		require.Error(t, err)
		assert.True(t, invoke.IsInvalidArgument(err))
		assert.Equal(t, "N must be an integer >= 2, got 1", err.Error())

		_, err = fn(context.Background(), invoke.NewArgs(nil))
		require.Error(t, err)
		assert.True(t, invoke.IsInvalidArgument(err))
	}
}

func TestFactorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Rho(ctx, args(int64(1_000_003*999_983)))
	assert.ErrorIs(t, err, context.Canceled)
}
