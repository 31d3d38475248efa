package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/janhq/rooms-api/jobs"

// JobInstrumenter wraps background jobs (reconcile, sweep) in a span and
// records duration and outcome counters.
type JobInstrumenter struct {
	tracer      trace.Tracer
	running     metric.Int64UpDownCounter
	jobDuration metric.Float64Histogram
	jobsTotal   metric.Int64Counter
}

// NewJobInstrumenter builds an instrumenter from the global providers.
func NewJobInstrumenter() (*JobInstrumenter, error) {
	return NewJobInstrumenterWith(otel.Tracer(instrumentationName), otel.Meter(instrumentationName))
}

// NewJobInstrumenterWith builds an instrumenter from explicit providers.
func NewJobInstrumenterWith(tracer trace.Tracer, meter metric.Meter) (*JobInstrumenter, error) {
	running, err := meter.Int64UpDownCounter(
		"rooms_jobs_running",
		metric.WithDescription("Number of background jobs currently running"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"rooms_job_duration_seconds",
		metric.WithDescription("Background job duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	jobsTotal, err := meter.Int64Counter(
		"rooms_jobs_total",
		metric.WithDescription("Total background jobs run"),
	)
	if err != nil {
		return nil, err
	}

	return &JobInstrumenter{
		tracer:      tracer,
		running:     running,
		jobDuration: jobDuration,
		jobsTotal:   jobsTotal,
	}, nil
}

// Run executes fn inside a "job.<jobType>" span.
func (j *JobInstrumenter) Run(ctx context.Context, jobType string, fn func(context.Context) error) error {
	if j == nil {
		return fn(ctx)
	}

	j.running.Add(ctx, 1)
	defer j.running.Add(ctx, -1)

	ctx, span := j.tracer.Start(ctx, "job."+jobType,
		trace.WithAttributes(attribute.String("job.type", jobType)),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	attrs := metric.WithAttributes(
		attribute.String("job.type", jobType),
		attribute.String("status", status),
	)
	j.jobDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	j.jobsTotal.Add(ctx, 1, attrs)

	return err
}
