package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite_ReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, AtomicWrite(path, []byte("a: 1\n"), 0o644))
	require.NoError(t, AtomicWrite(path, []byte("a: 2\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 2\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestAtomicWrite_MissingDirectory(t *testing.T) {
	err := AtomicWrite(filepath.Join(t.TempDir(), "missing", "doc.yaml"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestReplaceSymlink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "100"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "200"), 0o755))
	link := filepath.Join(dir, "latest")

	require.NoError(t, ReplaceSymlink("100", link))
	got, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "100", got)

	require.NoError(t, ReplaceSymlink("200", link))
	got, err = os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "200", got)
	assert.True(t, IsDir(link))
}

func TestCopyTree_MergesAndOverwrites(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "cfg.yaml"), []byte("new"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "a.csv"), []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "cfg.yaml"), []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "cal.yaml"), []byte("keep"), 0o644))

	require.NoError(t, CopyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "cfg.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	data, err = os.ReadFile(filepath.Join(dst, "cal.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	assert.True(t, IsFile(filepath.Join(dst, "sub", "a.csv")))
}

func TestCopyTree_CreatesDestination(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "f"), []byte("1"), 0o600))
	dst := filepath.Join(t.TempDir(), "new", "cfg")

	require.NoError(t, CopyTree(src, dst))
	info, err := os.Stat(filepath.Join(dst, "f"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCopyTree_Exclude(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "cfg.yaml"), []byte("cfg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "cal.yaml"), []byte("old cal"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "cal.yaml"), []byte("new cal"), 0o644))

	require.NoError(t, CopyTree(src, dst, "cal.yaml"))

	data, err := os.ReadFile(filepath.Join(dst, "cal.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "new cal", string(data))
	assert.True(t, IsFile(filepath.Join(dst, "cfg.yaml")))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.ros/setups")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ros", "setups"), got)

	got, err = ExpandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	_, err = ExpandHome("")
	assert.Error(t, err)
}

func TestResolve_FollowsExistingSymlinks(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link")))

	got, err := Resolve(filepath.Join(dir, "link", "not", "yet"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(target, "not", "yet"), got)
}
