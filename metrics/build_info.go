package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterBuildInfo 注册构建信息指标，重复调用无效果。
func (m *Metrics) RegisterBuildInfo(service, version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if service == "" {
		service = "unknown"
	}
	if version == "" {
		version = "unknown"
	}

	m.BuildInfo = m.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build information for the service",
	}, []string{"service", "version"})

	m.BuildInfo.WithLabelValues(service, version).Set(1)
}
