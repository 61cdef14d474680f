package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
)

// DefaultTimeout is the default timeout for remote write HTTP requests.
const DefaultTimeout = 30 * time.Second

// remoteWritePath is appended to the configured base URL.
const remoteWritePath = "/api/v1/write"

// PushRegistry implements Registry for push-based collection. Each
// instrument update is written immediately to a VictoriaMetrics/Prometheus
// remote write endpoint, so hosts that a scraper cannot reach still report
// record counts, retained cost and eviction totals.
type PushRegistry struct {
	writer *remoteWriter
}

// PushConfig configures a PushRegistry.
type PushConfig struct {
	// URL is the base URL of the remote write endpoint, without the
	// /api/v1/write suffix (e.g., "http://localhost:9090").
	URL string
	// Prefix is prepended to every metric name with an underscore, so an
	// instrument named "activity_records" becomes "<prefix>_activity_records".
	Prefix string
	// Job is the job label attached to every series.
	Job string
	// Instance is the instance label attached to every series.
	Instance string
	// Timeout bounds each remote write request. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// NewPushRegistry creates a PushRegistry writing to the endpoint in cfg.
func NewPushRegistry(cfg PushConfig) *PushRegistry {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	w := &remoteWriter{
		endpoint:   cfg.URL + remoteWritePath,
		httpClient: &http.Client{Timeout: timeout},
		prefix:     cfg.Prefix,
		timeout:    timeout,
	}
	if cfg.Job != "" {
		w.static = append(w.static, prompb.Label{Name: "job", Value: cfg.Job})
	}
	if cfg.Instance != "" {
		w.static = append(w.static, prompb.Label{Name: "instance", Value: cfg.Instance})
	}
	return &PushRegistry{writer: w}
}

// NewGauge creates a Gauge that writes every Set call.
func (r *PushRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	return &pushGauge{
		writer: r.writer,
		name:   opts.Name,
	}, nil
}

// NewGaugeVec creates a GaugeVec whose labelled gauges write every Set call.
func (r *PushRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (GaugeVec, error) {
	return &pushGaugeVec{
		writer: r.writer,
		name:   opts.Name,
	}, nil
}

// NewCounter creates a Counter that writes its accumulated value on every
// Inc or Add call.
func (r *PushRegistry) NewCounter(opts prometheus.CounterOpts) (Counter, error) {
	return &pushCounter{
		writer: r.writer,
		name:   opts.Name,
	}, nil
}

// NewCounterVec creates a CounterVec. Counters for the same label set share
// state, so repeated With calls keep accumulating into one series.
func (r *PushRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error) {
	return &pushCounterVec{
		writer: r.writer,
		name:   opts.Name,
	}, nil
}

// remoteWriter encodes samples in the Prometheus remote write format and
// POSTs them.
type remoteWriter struct {
	endpoint   string
	httpClient *http.Client
	prefix     string
	static     []prompb.Label
	timeout    time.Duration
}

// write sends a single sample for the named metric.
func (w *remoteWriter) write(name string, value float64, labels map[string]string) error {
	req := &prompb.WriteRequest{
		Timeseries: []prompb.TimeSeries{w.series(name, value, labels)},
	}

	data, err := proto.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling write request: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// series builds a single-sample TimeSeries with the prefixed name, the
// static job/instance labels and any instrument labels.
func (w *remoteWriter) series(name string, value float64, labels map[string]string) prompb.TimeSeries {
	metricName := name
	if w.prefix != "" {
		metricName = w.prefix + "_" + name
	}

	promLabels := make([]prompb.Label, 0, len(labels)+len(w.static)+1)
	promLabels = append(promLabels, prompb.Label{Name: "__name__", Value: metricName})
	promLabels = append(promLabels, w.static...)
	for k, v := range labels {
		promLabels = append(promLabels, prompb.Label{Name: k, Value: v})
	}

	return prompb.TimeSeries{
		Labels: promLabels,
		Samples: []prompb.Sample{{
			Value:     value,
			Timestamp: time.Now().UnixMilli(),
		}},
	}
}

// pushGauge implements Gauge for push mode. Errors are dropped: a failed
// write must never block or fail a registry operation.
type pushGauge struct {
	writer *remoteWriter
	name   string
	labels map[string]string
}

func (g *pushGauge) Set(v float64) {
	_ = g.writer.write(g.name, v, g.labels)
}

// pushGaugeVec implements GaugeVec for push mode.
type pushGaugeVec struct {
	writer *remoteWriter
	name   string
}

func (g *pushGaugeVec) With(labels prometheus.Labels) Gauge {
	return &pushGauge{
		writer: g.writer,
		name:   g.name,
		labels: labels,
	}
}

// pushCounter implements Counter for push mode. The running total lives
// here because the remote end only ever sees point-in-time samples.
type pushCounter struct {
	mu     sync.Mutex
	writer *remoteWriter
	name   string
	labels map[string]string
	value  float64
}

func (c *pushCounter) Inc() {
	c.Add(1)
}

func (c *pushCounter) Add(v float64) {
	c.mu.Lock()
	c.value += v
	value := c.value
	c.mu.Unlock()
	_ = c.writer.write(c.name, value, c.labels)
}

// pushCounterVec implements CounterVec for push mode.
type pushCounterVec struct {
	mu       sync.Mutex
	writer   *remoteWriter
	name     string
	counters map[string]*pushCounter
}

func (c *pushCounterVec) With(labels prometheus.Labels) Counter {
	key := labelsToKey(labels)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counters == nil {
		c.counters = make(map[string]*pushCounter)
	}
	if counter, ok := c.counters[key]; ok {
		return counter
	}

	counter := &pushCounter{
		writer: c.writer,
		name:   c.name,
		labels: labels,
	}
	c.counters[key] = counter
	return counter
}

// labelsToKey creates a map key from a label set.
func labelsToKey(labels prometheus.Labels) string {
	var key string
	for k, v := range labels {
		key += k + "=" + v + ","
	}
	return key
}
