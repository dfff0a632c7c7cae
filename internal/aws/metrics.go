package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits count metrics to CloudWatch. Each count is published twice:
// once with the deployment dimensions and once without, so dashboards can
// aggregate across deployments. Emission failures are logged, never returned;
// metrics must not fail a request.
type Metrics struct {
	client     CloudWatchAPI
	namespace  string
	dimensions map[string]string
	logger     *zap.Logger
}

// NewMetrics returns a Metrics handle. A nil client yields a no-op handle,
// which tests and local runs rely on.
func NewMetrics(client CloudWatchAPI, namespace string, dimensions map[string]string, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:     client,
		namespace:  namespace,
		dimensions: dimensions,
		logger:     logger,
	}
}

// Count increments the named counter by n.
func (m *Metrics) Count(ctx context.Context, name string, n float64) {
	if m == nil || m.client == nil {
		return
	}

	data := []cwtypes.MetricDatum{{
		MetricName: sdkaws.String(name),
		Unit:       cwtypes.StandardUnitCount,
		Value:      sdkaws.Float64(n),
	}}
	if len(m.dimensions) > 0 {
		dims := make([]cwtypes.Dimension, 0, len(m.dimensions))
		for k, v := range m.dimensions {
			dims = append(dims, cwtypes.Dimension{
				Name:  sdkaws.String(k),
				Value: sdkaws.String(v),
			})
		}
		data = append(data, cwtypes.MetricDatum{
			MetricName: sdkaws.String(name),
			Unit:       cwtypes.StandardUnitCount,
			Value:      sdkaws.Float64(n),
			Dimensions: dims,
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.namespace),
		MetricData: data,
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("failed to put metric data", zap.String("metric", name), zap.Error(err))
	}
}

// Increment is Count with n = 1.
func (m *Metrics) Increment(ctx context.Context, name string) {
	m.Count(ctx, name, 1)
}
