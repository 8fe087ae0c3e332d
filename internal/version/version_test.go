package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = ""
	v, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "0.0.1-dev", v)

	Version = "v1.4.2-3-gdeadbeef"
	v, err = Get()
	require.NoError(t, err)
	assert.Equal(t, "1.4.2-3-gdeadbeef", v)

	Version = "nightly"
	_, err = Get()
	assert.Error(t, err)
}
