package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordCartOperation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewAppMetrics(provider.Meter("test"), "storefront-test")
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCartOperation(ctx, "add", "local", true)
	m.RecordCartOperation(ctx, "add", "local", true)
	m.RecordCartOperation(ctx, "add", "remote", false)
	m.RecordCommerceRequest(ctx, "cart.add", time.Now(), false)

	got := collect(t, reader)
	ops, ok := got["cart_operations_total"]
	require.True(t, ok)
	sum, ok := ops.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
		v, _ := dp.Attributes.Value("service.name")
		assert.Equal(t, "storefront-test", v.AsString())
	}
	assert.Equal(t, int64(3), total)
	assert.Len(t, sum.DataPoints, 2)

	_, ok = got["commerce.client.request.duration"]
	assert.True(t, ok)
}

func TestParseHeaders(t *testing.T) {
	h := parseHeaders("signoz-ingestion-key=abc, x-extra = 1,broken")
	assert.Equal(t, map[string]string{"signoz-ingestion-key": "abc", "x-extra": "1"}, h)
	assert.Empty(t, parseHeaders(""))
}
