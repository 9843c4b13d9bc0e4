package observability

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/login", "POST", 200, time.Millisecond)
	m.RecordRequest("/api/login", "POST", 200, time.Millisecond)
	m.RecordError("/api/login", "POST", "UNAUTHORIZED")
	m.RecordAuthFailure("expired")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/login|POST|UNAUTHORIZED"])
	assert.Equal(t, int64(1), snap.AuthFailures["expired"])

	snap.AuthFailures["expired"] = 99
	assert.Equal(t, int64(1), m.Snapshot().AuthFailures["expired"])
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
		m.RecordAuthFailure("malformed")
		_ = m.Snapshot()
	})
}

func TestMetricsConcurrentAuthFailures(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordAuthFailure("signature_invalid")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), m.Snapshot().AuthFailures["signature_invalid"])
}

func TestLogSnapshot(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMetrics()
	m.RecordAuthFailure("signature_invalid")
	m.RecordAuthFailure("signature_invalid")

	LogSnapshot(zap.New(core), m)

	entries := logs.FilterMessage("metrics snapshot").All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]int64{"signature_invalid": 2}, entries[0].ContextMap()["auth_failures"])

	assert.NotPanics(t, func() { LogSnapshot(zap.New(core), nil) })
	assert.NotPanics(t, func() { LogSnapshot(nil, m) })
}
