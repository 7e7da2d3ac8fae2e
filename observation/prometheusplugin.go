package observation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vle-sim/vle/value"
)

// PrometheusPlugin exposes one prometheus.Gauge per observable port bound
// to its views, registered lazily on the first onNewObservable call. It
// is one concrete instantiation of the mode-agnostic, opaque-to-the-kernel
// output-plugin contract.
type PrometheusPlugin struct {
	namespace string
	registry  *prometheus.Registry

	mu sync.Mutex
	gauges map[string]prometheus.Gauge
}

// NewPrometheusPlugin constructs a plugin publishing under namespace,
// registered into its own prometheus.Registry (location is the sink
// identifier from the project description's output entry, unused beyond
// forming the namespace label).
func NewPrometheusPlugin(namespace string) *PrometheusPlugin {
	return &PrometheusPlugin{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		gauges:    make(map[string]prometheus.Gauge),
	}
}

// Registry exposes the underlying prometheus.Registry for an HTTP
// /metrics handler to serve.
func (p *PrometheusPlugin) Registry() *prometheus.Registry { return p.registry }

func (p *PrometheusPlugin) OnParameter(string, value.Value) {}

func (p *PrometheusPlugin) OnNewObservable(simPath, port string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := simPath + "." + port
	if _, ok := p.gauges[key]; ok {
		return
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: p.namespace,
		Name:      sanitizeMetricName(key),
		Help:      "VLE observable " + key,
	})
	p.registry.MustRegister(g)
	p.gauges[key] = g
}

func (p *PrometheusPlugin) OnDelObservable(simPath, port string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := simPath + "." + port
	if g, ok := p.gauges[key]; ok {
		p.registry.Unregister(g)
		delete(p.gauges, key)
	}
}

func (p *PrometheusPlugin) OnValue(t int64, simPath, port string, v value.Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gauges[simPath+"."+port]
	if !ok {
		return
	}
	if f, ok := v.Double(); ok {
		g.Set(f)
	} else if i, ok := v.Int(); ok {
		g.Set(float64(i))
	}
}

// Finish returns no matrix: prometheus is a live-scrape sink, not an
// accumulating one.
func (p *PrometheusPlugin) Finish(int64) []Row { return nil }

func sanitizeMetricName(s string) string {
	out := []rune(s)
	for i, r := range out {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			out[i] = '_'
		}
	}
	return string(out)
}

var _ OutputPlugin = (*PrometheusPlugin)(nil)
