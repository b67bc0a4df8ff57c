package orrery

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountRecordingAndReplay(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	e := New(Config{Metrics: m})

	rec := NewRecorder(e)
	require.NoError(t, rec.Start())
	cmd := NewCommands(rec)
	n, err := cmd.CreateObject("n")
	require.NoError(t, err)
	require.NoError(t, n.SetPosition(V(1, 0, 0)))
	require.NoError(t, cmd.SetCameraFOV(30))
	log, err := rec.Stop()
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recorded.WithLabelValues("factory")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recorded.WithLabelValues("mutation")))

	bad := NewCommandLog(log.Session(), log.RecordedAt(), append(log.Instructions(),
		NewInstruction(OpSetObjectPosition, 77, []any{V(0, 0, 0)}, nil))...)
	NewReplayer(WithReplayMetrics(m)).Parallel(bad, e)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.replayed.WithLabelValues("parallel", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.replayed.WithLabelValues("parallel", "failed")))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.sessionStarted()
	m.instructionRecorded(ClassMutation)
	m.instructionReplayed(Sequential, "ok")
}
