package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/optionboard/config"
	"github.com/wyfcoding/optionboard/logging"
	"github.com/wyfcoding/optionboard/metrics"
	"github.com/wyfcoding/optionboard/pricing"
)

// app 各子命令共享的运行环境。
type app struct {
	cfgPath  string
	logLevel string

	cfg       *config.Config
	logger    *logging.Logger
	collector *metrics.AnalyticsCollector
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "optionboard",
		Short:         "Option chain analytics: pricing, implied volatility, Greeks and exposures",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to a toml config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newPriceCmd(a), newBoardCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	loader, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = loader.Config()
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}

	if a.cfg.Log.File != "" {
		a.logger = logging.NewFromConfig(a.cfg.Log)
	} else {
		logging.SetLevel(a.cfg.Log.Level)
		a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), a.cfg.Log.Service, cmd.Name())
	}
	slog.SetDefault(a.logger.Logger)

	if a.cfg.Metrics.Enabled {
		m := metrics.NewMetrics(a.cfg.Metrics.Namespace)
		m.RegisterBuildInfo(a.cfg.Log.Service, a.cfg.Version)
		a.collector = m.NewAnalyticsCollector()
	}
	a.logger.Debug("config loaded", "path", a.cfgPath, "version", a.cfg.Version)
	return nil
}

// solver 按配置构造求解器，开启指标时挂上采集器。
func (a *app) solver() pricing.Solver {
	if a.collector == nil {
		return a.cfg.Solver(nil)
	}
	return a.cfg.Solver(a.collector)
}

// printMetrics 开启指标时输出本次运行的求解与写入统计。
func (a *app) printMetrics(cmd *cobra.Command) {
	if a.collector == nil {
		return
	}
	t := newTable(cmd.OutOrStdout(), "metric", "label", "count")
	for _, m := range []pricing.Method{pricing.MethodNewton, pricing.MethodBisection, pricing.MethodNone} {
		for _, o := range []pricing.Outcome{pricing.OutcomeConverged, pricing.OutcomeNoArbitrage, pricing.OutcomeInvalid, pricing.OutcomeFailed} {
			if n := a.collector.Solves(m, o); n > 0 {
				t.Append([]string{"iv_solves", fmt.Sprintf("%s/%s", m, o), fmt.Sprint(n)})
			}
		}
	}
	for _, r := range upsertResults {
		if n := a.collector.Upserts(r); n > 0 {
			t.Append([]string{"board_upserts", string(r), fmt.Sprint(n)})
		}
	}
	t.Render()
}
