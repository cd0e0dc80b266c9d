package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/hazelbrew/cafe-orderflow/internal/awsx"
	"github.com/hazelbrew/cafe-orderflow/internal/store"
)

// Emitter publishes order counts as CloudWatch gauges.
type Emitter struct {
	client    awsx.CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

func NewEmitter(client awsx.CloudWatchAPI, namespace string) *Emitter {
	return &Emitter{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Publish sends one datum per counter, all sharing the same timestamp.
func (e *Emitter) Publish(ctx context.Context, s store.Stats) error {
	now := e.nowFunc()

	datum := func(name string, value int) types.MetricDatum {
		return types.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(float64(value)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		}
	}

	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(e.namespace),
		MetricData: []types.MetricDatum{
			datum("OrdersTotal", s.Total),
			datum("OrdersNew", s.New),
			datum("OrdersBrewing", s.Brewing),
			datum("OrdersCompleted", s.Completed),
			datum("OrdersCancelled", s.Cancelled),
		},
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
