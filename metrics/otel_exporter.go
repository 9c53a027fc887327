package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter              metric.Meter
	queueDepthGauge    metric.Int64ObservableGauge
	deliveredCounter   metric.Int64ObservableCounter
	failedCounter      metric.Int64ObservableCounter
	activeWorkersGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	// Create meter with service info
	meter := meterProvider.Meter(
		"scribeline",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	// Queue depth gauge (per queue)
	oe.queueDepthGauge, err = oe.meter.Int64ObservableGauge(
		"webhook.queue.depth",
		metric.WithDescription("Number of jobs per delivery queue"),
		metric.WithUnit("{jobs}"),
		metric.WithInt64Callback(oe.observeQueueDepths),
	)
	if err != nil {
		return fmt.Errorf("creating queue depth gauge: %w", err)
	}

	// Delivered counter
	oe.deliveredCounter, err = oe.meter.Int64ObservableCounter(
		"webhook.delivered.total",
		metric.WithDescription("Number of successfully delivered webhook jobs"),
		metric.WithUnit("{jobs}"),
		metric.WithInt64Callback(oe.observeDelivered),
	)
	if err != nil {
		return fmt.Errorf("creating delivered counter: %w", err)
	}

	// Failed counter (dead-lettered jobs)
	oe.failedCounter, err = oe.meter.Int64ObservableCounter(
		"webhook.failed.total",
		metric.WithDescription("Number of webhook jobs moved to the dead-letter store"),
		metric.WithUnit("{jobs}"),
		metric.WithInt64Callback(oe.observeFailed),
	)
	if err != nil {
		return fmt.Errorf("creating failed counter: %w", err)
	}

	// Active workers gauge (per task)
	oe.activeWorkersGauge, err = oe.meter.Int64ObservableGauge(
		"worker.active",
		metric.WithDescription("Number of workers with a live heartbeat per task"),
		metric.WithUnit("{workers}"),
		metric.WithInt64Callback(oe.observeActiveWorkers),
	)
	if err != nil {
		return fmt.Errorf("creating active workers gauge: %w", err)
	}

	return nil
}

// observeQueueDepths is a callback that reports queue depths
func (oe *OTelExporter) observeQueueDepths(ctx context.Context, observer metric.Int64Observer) error {
	depths, err := oe.collector.GetQueueDepths(ctx)
	if err != nil {
		return err
	}

	for queue, depth := range depths {
		observer.Observe(depth, metric.WithAttributes(
			attribute.String("queue.name", queue),
		))
	}

	return nil
}

// observeDelivered is a callback that reports the delivered total
func (oe *OTelExporter) observeDelivered(ctx context.Context, observer metric.Int64Observer) error {
	delivered, _, err := oe.collector.GetCounters(ctx)
	if err != nil {
		return err
	}

	observer.Observe(delivered)
	return nil
}

// observeFailed is a callback that reports the failed total
func (oe *OTelExporter) observeFailed(ctx context.Context, observer metric.Int64Observer) error {
	_, failed, err := oe.collector.GetCounters(ctx)
	if err != nil {
		return err
	}

	observer.Observe(failed)
	return nil
}

// observeActiveWorkers is a callback that reports active worker counts
func (oe *OTelExporter) observeActiveWorkers(ctx context.Context, observer metric.Int64Observer) error {
	workers, err := oe.collector.GetActiveWorkers(ctx)
	if err != nil {
		return err
	}

	byTask := make(map[string]int64)
	for _, w := range workers {
		byTask[w.Task]++
	}

	for task, count := range byTask {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("worker.task", task),
		))
	}

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
