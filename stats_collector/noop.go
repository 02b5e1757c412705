package stats_collector

import "github.com/gin-gonic/gin"

var _ StatsCollector = (*noopCollector)(nil)

type noopCollector struct {
}

func (col *noopCollector) Name() string                  { return "no-op" }
func (col *noopCollector) RegisterGinEngine(*gin.Engine) {}
func (col *noopCollector) AddRecommendationServed(bool)  {}
func (col *noopCollector) AddBoxOperation(string)        {}
func (col *noopCollector) AddBoxEventsSent(int)          {}
func (col *noopCollector) SetCatalogCreatures(int)       {}

func NewNoopStatsCollector() StatsCollector {
	return &noopCollector{}
}
