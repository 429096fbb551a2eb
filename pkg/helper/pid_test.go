package helper

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPIDPath(t *testing.T) {
	assert.Equal(t, "/tmp/x.pid", GetPIDPath("/tmp/x.pid"))
	assert.Equal(t, "/var/run/backoffice.pid", GetPIDPath(""))

	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	tmp := t.TempDir()
	_ = os.Chdir(tmp)

	exp, _ := filepath.EvalSymlinks(filepath.Join(tmp))
	got, _ := filepath.EvalSymlinks(filepath.Dir(GetPIDPath("apiserver.pid")))
	assert.Equal(t, exp, got)

	// parent missing falls back to /var/run
	assert.Equal(t, "/var/run/apiserver.pid", GetPIDPath("missing/dir/apiserver.pid"))
}

func TestWritePID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "apiserver.pid")
	cleanup, err := WritePID(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	require.NoError(t, cleanup())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
