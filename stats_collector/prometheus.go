package stats_collector

import (
	"strconv"

	"github.com/Depado/ginprom"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	DEFAULT_PROMETHEUS_NAMESPACE = "pvpokemon"
)

type PrometheusConfig struct {
	Enabled    bool      `koanf:"enabled"`
	Token      string    `koanf:"token"`
	BucketSize []float64 `koanf:"bucket_size"`
	Namespace  string    `koanf:"namespace"`
}

func (cfg *PrometheusConfig) Validate() error {
	if !cfg.Enabled {
		return nil
	}
	// ...
	return nil
}

func GetDefaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		BucketSize: []float64{.00005, .000075, .0001, .00025, .0005, .00075, .001, .0025, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		Namespace:  DEFAULT_PROMETHEUS_NAMESPACE,
	}
}

var _ StatsCollector = (*PrometheusCollector)(nil)

type PrometheusCollector struct {
	config   PrometheusConfig
	registry *prometheus.Registry

	recommendationsServed *prometheus.CounterVec
	boxOperations         *prometheus.CounterVec
	boxEventsSent         prometheus.Counter
	catalogCreatures      prometheus.Gauge
}

func (col *PrometheusCollector) Name() string {
	return "prometheus"
}

func (col *PrometheusCollector) RegisterGinEngine(engine *gin.Engine) {
	p := ginprom.New(
		ginprom.Engine(engine),
		ginprom.Registry(col.registry),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Token(col.config.Token),
		ginprom.BucketSize(col.config.BucketSize),
	)
	engine.Use(p.Instrument())
}

func (col *PrometheusCollector) AddRecommendationServed(fromBox bool) {
	col.recommendationsServed.WithLabelValues(strconv.FormatBool(fromBox)).Inc()
}

func (col *PrometheusCollector) AddBoxOperation(operation string) {
	col.boxOperations.WithLabelValues(operation).Inc()
}

func (col *PrometheusCollector) AddBoxEventsSent(num int) {
	col.boxEventsSent.Add(float64(num))
}

func (col *PrometheusCollector) SetCatalogCreatures(num int) {
	col.catalogCreatures.Set(float64(num))
}

func NewPrometheusCollector(config PrometheusConfig) StatsCollector {
	ns := config.Namespace
	if ns == "" {
		ns = DEFAULT_PROMETHEUS_NAMESPACE
	}

	registry := prometheus.NewRegistry()
	collector := &PrometheusCollector{
		config:   config,
		registry: registry,
		recommendationsServed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "recommendations_served",
				Help:      "Total number of team recommendations served",
			},
			[]string{"from_box"},
		),
		boxOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "box_operations",
				Help:      "Total number of successful box changes",
			},
			[]string{"operation"},
		),
		boxEventsSent: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "box_events_sent",
				Help:      "Total number of box events flushed to webhooks",
			},
		),
		catalogCreatures: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: ns,
				Name:      "catalog_creatures",
				Help:      "Number of creatures in the loaded pokedex",
			},
		),
	}

	processOpts := collectors.ProcessCollectorOpts{
		Namespace: ns,
	}

	registry.MustRegister(
		collectors.NewProcessCollector(processOpts),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.MetricsGC,
				collectors.MetricsMemory,
			),
		),
		collector.recommendationsServed,
		collector.boxOperations,
		collector.boxEventsSent,
		collector.catalogCreatures,
	)

	return collector
}
