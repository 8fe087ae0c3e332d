package configpaths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG is not used on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "bindgen"), dir)
}

func TestConfigCandidatePathsUserFirst(t *testing.T) {
	tests := []struct {
		user   string
		pick   func(j, y, tm []string) []string
		wantAt string
	}{
		{user: "my.toml", pick: func(j, y, tm []string) []string { return tm }},
		{user: "my.yml", pick: func(j, y, tm []string) []string { return y }},
		{user: "my.json", pick: func(j, y, tm []string) []string { return j }},
		{user: "my.conf", pick: func(j, y, tm []string) []string { return j }},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			j, y, tm := ConfigCandidatePaths(tt.user)
			got := tt.pick(j, y, tm)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.user, got[0])
		})
	}
}

func TestConfigCandidatePathsWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	_, yamlPaths, _ := ConfigCandidatePaths("")
	assert.Equal(t, filepath.Join(wd, "bindgen.yaml"), yamlPaths[0])
	assert.Contains(t, yamlPaths, filepath.Join(wd, ".bindgen.yml"))
}

func TestEnsureDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "config.yaml")
	require.NoError(t, EnsureDir(p))
	assert.DirExists(t, filepath.Dir(p))
}
