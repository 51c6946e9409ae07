package config_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"reelcraft/internal/config"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

var Module = fx.Provide(
	config.Load,
	provideLogger,
	provideMetrics,
	provideClock,
)

func provideLogger(cfg *config.Config) *logrus.Logger {
	logger := cfg.NewLogger()
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.GetLevel())
	return logger
}

func provideMetrics() *metrics.Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewMetrics(registry)
}

func provideClock() utils.Clock {
	return utils.SystemClock{}
}
