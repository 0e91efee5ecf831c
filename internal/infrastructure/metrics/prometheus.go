// Package metrics implements port.Metrics on a dedicated Prometheus registry.
package metrics

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hapkiduki/fulfillment-go/internal/application/port"
)

// Prometheus creates collectors lazily, one per metric name. The label set of
// a metric is fixed by its first sample; later samples missing a label report
// it empty, and unknown labels are dropped.
type Prometheus struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
	labels     map[string][]string
}

// NewPrometheus creates a sink with its own registry, including Go and
// process collectors.
//
// Parameters:
//   - namespace: prefix for every metric name (e.g. "fulfillment")
func NewPrometheus(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Prometheus{
		namespace:  namespace,
		registry:   reg,
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		labels:     make(map[string][]string),
	}
}

// Registry exposes the underlying registry, e.g. for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Counter implements port.Metrics.
func (p *Prometheus) Counter(name string, value float64, tags map[string]string) {
	if value < 0 {
		return
	}
	p.mu.Lock()
	vec, ok := p.counters[name]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      name,
		}, p.labelNames(name, tags))
		p.register(vec)
		p.counters[name] = vec
	}
	values := p.labelValues(name, tags)
	p.mu.Unlock()

	vec.WithLabelValues(values...).Add(value)
}

// Gauge implements port.Metrics.
func (p *Prometheus) Gauge(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	vec, ok := p.gauges[name]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      name,
		}, p.labelNames(name, tags))
		p.register(vec)
		p.gauges[name] = vec
	}
	values := p.labelValues(name, tags)
	p.mu.Unlock()

	vec.WithLabelValues(values...).Set(value)
}

// Histogram implements port.Metrics.
func (p *Prometheus) Histogram(name string, value float64, tags map[string]string) {
	p.observe(name, value, tags)
}

// Timing implements port.Metrics. Durations are recorded in seconds.
func (p *Prometheus) Timing(name string, duration time.Duration, tags map[string]string) {
	p.observe(name, duration.Seconds(), tags)
}

func (p *Prometheus) observe(name string, value float64, tags map[string]string) {
	p.mu.Lock()
	vec, ok := p.histograms[name]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      name,
			Help:      name,
			Buckets:   prometheus.DefBuckets,
		}, p.labelNames(name, tags))
		p.register(vec)
		p.histograms[name] = vec
	}
	values := p.labelValues(name, tags)
	p.mu.Unlock()

	vec.WithLabelValues(values...).Observe(value)
}

// register adds c to the registry. A collector whose name clashes with one of
// another kind still records samples but is not exported.
func (p *Prometheus) register(c prometheus.Collector) {
	_ = p.registry.Register(c)
}

// labelNames fixes the label set for name. Must be called with mu held.
func (p *Prometheus) labelNames(name string, tags map[string]string) []string {
	if names, ok := p.labels[name]; ok {
		return names
	}
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	slices.Sort(names)
	p.labels[name] = names
	return names
}

// labelValues orders tag values by the fixed label set. Must be called with mu held.
func (p *Prometheus) labelValues(name string, tags map[string]string) []string {
	names := p.labels[name]
	values := make([]string, len(names))
	for i, n := range names {
		values[i] = tags[n]
	}
	return values
}

var _ port.Metrics = (*Prometheus)(nil)
