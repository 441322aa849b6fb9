package factor_test

import (
	"testing"

	_ "github.com/Aidin1998/algohost/internal/algorithms/factor"
	"github.com/Aidin1998/algohost/internal/invoke"
	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleManifestIsServed(t *testing.T) {
	m, err := manifest.Load("../../../examples/factor.yaml")
	require.NoError(t, err)

	for _, impl := range m.Implementations {
		_, ok := invoke.Default.Lookup(impl.ID)
		assert.True(t, ok, "implementation %q is not registered", impl.ID)
	}
}
