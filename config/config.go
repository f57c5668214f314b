// Package config 负责加载 optionboard 的运行配置。
// 配置来源依次为默认值、toml 文件与 OPTIONBOARD_ 前缀的环境变量，
// 加载后经过 validator 校验，并支持文件变更后的热更新。
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/wyfcoding/optionboard/logging"
	"github.com/wyfcoding/optionboard/option"
	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// EnvPrefix 环境变量前缀，例如 OPTIONBOARD_PRICING_TOLERANCE。
const EnvPrefix = "OPTIONBOARD"

const debounceTimeout = 500 * time.Millisecond

// Config 顶级配置结构.
type Config struct {
	Version string         `mapstructure:"version"`
	Pricing PricingConfig  `mapstructure:"pricing"`
	Board   BoardConfig    `mapstructure:"board"`
	Log     logging.Config `mapstructure:"log"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

// PricingConfig 隐含波动率求解参数.
type PricingConfig struct {
	Tolerance     float64 `mapstructure:"tolerance"      validate:"gt=0"`
	MaxIterations int     `mapstructure:"max_iterations" validate:"min=1"`
	SigmaMin      float64 `mapstructure:"sigma_min"      validate:"gt=0"`
	SigmaMax      float64 `mapstructure:"sigma_max"      validate:"gtfield=SigmaMin,lte=10"`
}

// BoardConfig 报价板与行情缺省参数.
type BoardConfig struct {
	MaturityTolerance  time.Duration `mapstructure:"maturity_tolerance"  validate:"gte=0"`
	ContractMultiplier float64       `mapstructure:"contract_multiplier" validate:"gt=0"`
	RiskFreeRate       float64       `mapstructure:"risk_free_rate"`
	DividendYield      float64       `mapstructure:"dividend_yield"`
}

// MetricsConfig 指标采集配置.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"required_if=Enabled true"`
}

// Solver 按配置构造隐含波动率求解器。
func (c *Config) Solver(obs pricing.Observer) pricing.Solver {
	return pricing.Solver{
		Tolerance:     c.Pricing.Tolerance,
		MaxIterations: c.Pricing.MaxIterations,
		SigmaMin:      c.Pricing.SigmaMin,
		SigmaMax:      c.Pricing.SigmaMax,
		Observer:      obs,
	}
}

// BoardOptions 按配置生成报价板选项，obs 为 nil 时不挂观察者。
func (c *Config) BoardOptions(obs option.Observer) []option.BoardOption {
	opts := []option.BoardOption{option.WithMaturityTolerance(c.Board.MaturityTolerance)}
	if obs != nil {
		opts = append(opts, option.WithObserver(obs))
	}
	return opts
}

func setDefaults(v *viper.Viper) {
	def := pricing.DefaultSolver()
	v.SetDefault("version", "dev")
	v.SetDefault("pricing.tolerance", def.Tolerance)
	v.SetDefault("pricing.max_iterations", def.MaxIterations)
	v.SetDefault("pricing.sigma_min", def.SigmaMin)
	v.SetDefault("pricing.sigma_max", def.SigmaMax)
	v.SetDefault("board.maturity_tolerance", time.Duration(0))
	v.SetDefault("board.contract_multiplier", 100.0)
	v.SetDefault("board.risk_free_rate", 0.0)
	v.SetDefault("board.dividend_yield", 0.0)
	v.SetDefault("log.service", "optionboard")
	v.SetDefault("log.module", "main")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", false)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", "optionboard")
}

// Loader 持有已加载的配置及其来源，支持热更新。
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate

	mu      sync.RWMutex
	current *Config
	hooks   []func(*Config)
}

// Load 读取并校验配置。path 为空时只使用默认值与环境变量。
func Load(path string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l := &Loader{v: v, validate: validator.New()}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, xerrors.ErrInvalidConfig.Derive("read config %s", path).WithCause(err)
		}
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Default 返回仅由默认值构成的配置。
func Default() *Config {
	l, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: defaults are invalid: %v", err))
	}
	return l.Config()
}

func (l *Loader) decode() (*Config, error) {
	cfg := new(Config)
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, xerrors.ErrInvalidConfig.Derive("unmarshal config").WithCause(err)
	}
	if err := l.validate.Struct(cfg); err != nil {
		return nil, xerrors.ErrInvalidConfig.Derive("config validation failed").WithCause(err)
	}
	return cfg, nil
}

// Config 返回当前生效的配置。热更新会替换指针，不会修改已返回的值。
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnReload 注册配置热更新回调。
func (l *Loader) OnReload(hook func(*Config)) {
	if hook == nil {
		return
	}
	l.mu.Lock()
	l.hooks = append(l.hooks, hook)
	l.mu.Unlock()
}

// Watch 监听配置文件变化。只有通过校验的新配置才会生效。
func (l *Loader) Watch() {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		time.Sleep(debounceTimeout)
		if err := l.reload(); err != nil {
			slog.Error("config reload rejected", "error", err)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) reload() error {
	if err := l.v.ReadInConfig(); err != nil {
		return xerrors.ErrInvalidConfig.Derive("re-read config").WithCause(err)
	}
	cfg, err := l.decode()
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.current = cfg
	hooks := slices.Clone(l.hooks)
	l.mu.Unlock()

	logging.SetLevel(cfg.Log.Level)
	slog.Info("config hot-reloaded and validated successfully", "version", cfg.Version)
	for _, hook := range hooks {
		hook(cfg)
	}
	return nil
}

// Viper 返回底层的 Viper 实例.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}
