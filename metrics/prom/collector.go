package prom

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/geoclass/dataset"
)

// Collector implements geoclass.MetricsCollector on a private registry.
type Collector struct {
	registry *prometheus.Registry

	linesTotal       *prometheus.CounterVec
	parseErrorsTotal *prometheus.CounterVec
	itemsTotal       *prometheus.CounterVec
	loadFailures     *prometheus.CounterVec
	batchesTotal     *prometheus.CounterVec
	batchDuration    prometheus.Histogram
	mergedRecords    prometheus.Gauge
	mergeFailures    prometheus.Counter
	mergeDuration    prometheus.Gauge
	memoryInUse      prometheus.Gauge
	memoryPeak       prometheus.Gauge
	lastSuccess      prometheus.Gauge
}

// New registers the geoclass metrics on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		linesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclass_lines_read_total",
			Help: "Total number of input lines read",
		}, []string{"kind"}),
		parseErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclass_parse_errors_total",
			Help: "Total number of input lines that failed to parse",
		}, []string{"kind"}),
		itemsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclass_items_total",
			Help: "Total number of items accepted from the input",
		}, []string{"kind"}),
		loadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclass_load_failures_total",
			Help: "Total number of input loads that failed",
		}, []string{"kind"}),
		batchesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geoclass_batches_total",
			Help: "Total number of batches by outcome",
		}, []string{"outcome"}),
		batchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "geoclass_batch_duration_seconds",
			Help:    "Time to train and evaluate one batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14),
		}),
		mergedRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "geoclass_merged_records",
			Help: "Number of records in the merged classification",
		}),
		mergeFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "geoclass_merge_failures_total",
			Help: "Total number of failed merges",
		}),
		mergeDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "geoclass_merge_duration_seconds",
			Help: "Duration of the last merge",
		}),
		memoryInUse: f.NewGauge(prometheus.GaugeOpts{
			Name: "geoclass_table_memory_bytes",
			Help: "Training memory reserved by the current batch",
		}),
		memoryPeak: f.NewGauge(prometheus.GaugeOpts{
			Name: "geoclass_table_memory_peak_bytes",
			Help: "Peak table memory reserved during the run",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "geoclass_last_success_timestamp_seconds",
			Help: "Unix time of the last successful merge",
		}),
	}
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// RecordLoad implements geoclass.MetricsCollector.
func (c *Collector) RecordLoad(kind string, stats dataset.Stats, err error) {
	c.linesTotal.WithLabelValues(kind).Add(float64(stats.Lines))
	c.parseErrorsTotal.WithLabelValues(kind).Add(float64(stats.Errors))
	c.itemsTotal.WithLabelValues(kind).Add(float64(stats.Items))
	if err != nil {
		c.loadFailures.WithLabelValues(kind).Inc()
	}
}

// RecordBatch implements geoclass.MetricsCollector.
func (c *Collector) RecordBatch(batch int, skipped bool, duration time.Duration, err error) {
	switch {
	case err != nil:
		c.batchesTotal.WithLabelValues("failed").Inc()
	case skipped:
		c.batchesTotal.WithLabelValues("skipped").Inc()
	default:
		c.batchesTotal.WithLabelValues("completed").Inc()
		c.batchDuration.Observe(duration.Seconds())
	}
}

// RecordMerge implements geoclass.MetricsCollector.
func (c *Collector) RecordMerge(batches, records int, duration time.Duration, err error) {
	if err != nil {
		c.mergeFailures.Inc()
		return
	}
	c.mergedRecords.Set(float64(records))
	c.mergeDuration.Set(duration.Seconds())
	c.lastSuccess.SetToCurrentTime()
}

// RecordMemory implements geoclass.MetricsCollector.
func (c *Collector) RecordMemory(inUse, peak int64) {
	c.memoryInUse.Set(float64(inUse))
	c.memoryPeak.Set(float64(peak))
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
