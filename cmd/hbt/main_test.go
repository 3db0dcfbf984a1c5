package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/remote"
)

func TestRealMain_Version(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, realMain([]string{"--version"}, &stderr))
	assert.Empty(t, stderr.String())
}

func TestRealMain_BadConfig(t *testing.T) {
	t.Setenv("HBT_BASE_URL", "ftp://example.com")

	var stderr bytes.Buffer
	assert.Equal(t, 1, realMain(nil, &stderr))
	assert.Contains(t, stderr.String(), "Error loading config")
}

func TestRealMain_StartupFailureIsLogged(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "hbt.log")
	t.Setenv("HBT_LOG_FILE", logPath)
	t.Setenv("HBT_DB_PATH", filepath.Join(dir, "missing", "hbt.db"))

	var stderr bytes.Buffer
	assert.Equal(t, 1, realMain(nil, &stderr))
	assert.Contains(t, stderr.String(), "initializing database")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exiting")
}

func TestCheckService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := logging.New(&buf, "info")
	checkService(remote.NewClient(srv.URL, 0, logger), logger)
	assert.Contains(t, buf.String(), "coaching service reachable")
}

func TestCheckService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var buf bytes.Buffer
	logger := logging.New(&buf, "info")
	checkService(remote.NewClient(url, 0, logger), logger)
	assert.Contains(t, buf.String(), "coaching service not available")
	assert.Contains(t, buf.String(), "unreachable")
}
