package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRemoteCall(t *testing.T) {
	m := New()
	m.RecordRemoteCall("create", "ok", 0.01)
	m.RecordRemoteCall("create", "ok", 0.02)
	m.RecordRemoteCall("create", "unreachable", 0.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemoteCalls.WithLabelValues("create", "unreachable")))
}

func TestRecordReconciliationAndSnapshot(t *testing.T) {
	m := New()
	m.RecordReconciliation("delete", "rejected", false)
	m.RecordSnapshotWrite("habit-coach-goals", nil)
	m.RecordSnapshotWrite("habit-coach-goals", errors.New("disk full"))
	m.SetGoals(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("delete", "rejected", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotWrites.WithLabelValues("habit-coach-goals", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotWrites.WithLabelValues("habit-coach-goals", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Goals))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRemoteCall("x", "ok", 0)
		m.RecordReconciliation("x", "ok", true)
		m.RecordSnapshotWrite("k", nil)
		m.SetGoals(1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetGoals(2)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "hbt_goals 2")
}
