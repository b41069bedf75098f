package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordRefresh(t *testing.T) {
	before := testutil.ToFloat64(refreshCounter)

	RecordRefresh(map[string]int{"New": 2, "Won": 1})

	require.InDelta(t, before+1, testutil.ToFloat64(refreshCounter), 0.0001)
	require.InDelta(t, 2, testutil.ToFloat64(leadsByStatus.WithLabelValues("New")), 0.0001)
	require.InDelta(t, 1, testutil.ToFloat64(leadsByStatus.WithLabelValues("Won")), 0.0001)
	require.Greater(t, testutil.ToFloat64(lastRefreshGauge), 0.0)
}

func TestStoreErrorsAndExports(t *testing.T) {
	beforeRead := testutil.ToFloat64(storeErrors.WithLabelValues("read"))
	beforeFailed := testutil.ToFloat64(exportCounter.WithLabelValues("error"))

	RecordStoreError("read")
	RecordExport(false)
	RecordExport(true)

	require.InDelta(t, beforeRead+1, testutil.ToFloat64(storeErrors.WithLabelValues("read")), 0.0001)
	require.InDelta(t, beforeFailed+1, testutil.ToFloat64(exportCounter.WithLabelValues("error")), 0.0001)
}

func TestObserveRender(t *testing.T) {
	before := testutil.CollectAndCount(renderSeconds)
	ObserveRender("histogram-test", time.Millisecond)
	require.Equal(t, before+1, testutil.CollectAndCount(renderSeconds))
}
