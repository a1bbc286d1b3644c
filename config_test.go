package jsep_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Aintaer/jsep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".jsep.yaml")

	configYAML := `
binary_ops: ["**", "*", "+"]
unary_ops: []
precedence: true
max_depth: 64
`

	err := os.WriteFile(path, []byte(configYAML), 0o644)
	require.NoError(t, err)

	cfg, err := jsep.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"**", "*", "+"}, cfg.BinaryOps)
	assert.NotNil(t, cfg.UnaryOps)
	assert.Empty(t, cfg.UnaryOps)
	assert.Nil(t, cfg.Keywords)
	assert.True(t, cfg.Precedence)
	assert.Equal(t, 64, cfg.MaxDepth)

	merged := jsep.DefaultConfig().Merge(cfg)
	assert.Equal(t, jsep.DefaultKeywords(), merged.Keywords)
	assert.Empty(t, merged.UnaryOps)

	_, err = jsep.Parse("-a", cfg)
	require.ErrorIs(t, err, jsep.ErrUnexpectedToken)

	n, err := jsep.Parse("a*b+c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "(+ (* a b) c)", jsep.Sexpr(n))

	// "**" has no rank, so it binds loosest.
	n, err = jsep.Parse("a+b**c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "(** (+ a b) c)", jsep.Sexpr(n))
}

func TestLoadConfigFileInvalid(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "jsep.yaml")

	err := os.WriteFile(path, []byte("binary_ops: {"), 0o644)
	require.NoError(t, err)

	_, err = jsep.LoadConfigFile(path)
	require.Error(t, err)

	_, err = jsep.LoadConfigFile(filepath.Join(tmpDir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path := filepath.Join(root, ".jsep.yml")
	require.NoError(t, os.WriteFile(path, []byte("keywords: [nil]\n"), 0o644))

	found, err := jsep.FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	cfg, err := jsep.LoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, []string{"nil"}, cfg.Keywords)
}

func TestConfigMerge(t *testing.T) {
	t.Parallel()

	base := jsep.DefaultConfig()

	assert.Equal(t, base, base.Merge(nil))

	merged := base.Merge(&jsep.Config{BinaryOps: []string{"^"}})
	assert.Equal(t, []string{"^"}, merged.BinaryOps)
	assert.Equal(t, jsep.DefaultUnaryOps(), merged.UnaryOps)
	assert.Equal(t, jsep.DefaultBinaryOps(), base.BinaryOps, "base must not change")

	var nilCfg *jsep.Config
	assert.Equal(t, &jsep.Config{MaxDepth: 3}, nilCfg.Merge(&jsep.Config{MaxDepth: 3}))
}
