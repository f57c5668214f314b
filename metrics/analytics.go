package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/wyfcoding/optionboard/option"
	"github.com/wyfcoding/optionboard/pricing"
)

// AnalyticsCollector 统计隐含波动率求解与报价板写入。
// 同时实现 pricing.Observer 与 option.Observer。
type AnalyticsCollector struct {
	IVSolves     *prometheus.CounterVec
	IVIterations *prometheus.HistogramVec
	BoardUpserts *prometheus.CounterVec
}

var (
	_ pricing.Observer = (*AnalyticsCollector)(nil)
	_ option.Observer  = (*AnalyticsCollector)(nil)
)

// NewAnalyticsCollector 在 m 上注册分析类指标。
func (m *Metrics) NewAnalyticsCollector() *AnalyticsCollector {
	return &AnalyticsCollector{
		IVSolves: m.NewCounterVec(prometheus.CounterOpts{
			Name: "iv_solves_total",
			Help: "Implied volatility solves by method and outcome",
		}, []string{"method", "outcome"}),
		IVIterations: m.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iv_solve_iterations",
			Help:    "Iterations spent per implied volatility solve",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}, []string{"method"}),
		BoardUpserts: m.NewCounterVec(prometheus.CounterOpts{
			Name: "board_upserts_total",
			Help: "Option board upserts by result",
		}, []string{"result"}),
	}
}

// ObserveSolve 记录一次求解。
func (c *AnalyticsCollector) ObserveSolve(method pricing.Method, outcome pricing.Outcome, iterations int) {
	c.IVSolves.WithLabelValues(string(method), string(outcome)).Inc()
	c.IVIterations.WithLabelValues(string(method)).Observe(float64(iterations))
}

// ObserveUpsert 记录一次写入。
func (c *AnalyticsCollector) ObserveUpsert(result option.UpsertResult) {
	c.BoardUpserts.WithLabelValues(string(result)).Inc()
}

// Solves 返回指定标签组合的求解次数，供 CLI 汇总输出。
func (c *AnalyticsCollector) Solves(method pricing.Method, outcome pricing.Outcome) float64 {
	return counterValue(c.IVSolves.WithLabelValues(string(method), string(outcome)))
}

// Upserts 返回指定结果的写入次数。
func (c *AnalyticsCollector) Upserts(result option.UpsertResult) float64 {
	return counterValue(c.BoardUpserts.WithLabelValues(string(result)))
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
