package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/hazelbrew/cafe-orderflow/internal/store"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, params)
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestPublish(t *testing.T) {
	fake := &fakeCloudWatch{}
	e := NewEmitter(fake, "CafeOrderflow")
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	e.nowFunc = func() time.Time { return fixed }

	stats := store.Stats{Total: 5, New: 2, Brewing: 1, Completed: 1, Cancelled: 1}
	if err := e.Publish(context.Background(), stats); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("got %d calls, want 1", len(fake.inputs))
	}
	in := fake.inputs[0]
	if *in.Namespace != "CafeOrderflow" {
		t.Errorf("namespace = %q", *in.Namespace)
	}
	if len(in.MetricData) != 5 {
		t.Fatalf("got %d datums, want 5", len(in.MetricData))
	}

	byName := map[string]float64{}
	for _, d := range in.MetricData {
		byName[*d.MetricName] = *d.Value
		if !d.Timestamp.Equal(fixed) {
			t.Errorf("%s timestamp = %v", *d.MetricName, d.Timestamp)
		}
	}
	if byName["OrdersTotal"] != 5 || byName["OrdersNew"] != 2 || byName["OrdersBrewing"] != 1 {
		t.Errorf("datums = %v", byName)
	}
}

func TestPublish_Error(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	e := NewEmitter(fake, "CafeOrderflow")

	if err := e.Publish(context.Background(), store.Stats{}); err == nil {
		t.Fatal("expected error")
	}
}
