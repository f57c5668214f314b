// Package logging 提供基于 slog 的结构化日志封装，支持 OpenTelemetry 追踪上下文注入、
// 文件切割以及运行期调整日志级别。
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// defaultLogger 全局默认 Logger。
	defaultLogger *Logger
	once          sync.Once

	// level 所有由本包创建的 Handler 共享的级别，SetLevel 在运行期修改它。
	level = new(slog.LevelVar)
)

// Config 日志配置
type Config struct {
	Service    string `mapstructure:"service"`
	Module     string `mapstructure:"module"`
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"`        // 日志文件路径，为空则只输出到 stdout
	Stdout     bool   `mapstructure:"stdout"`      // 配置了文件时是否同时输出到 stdout
	MaxSize    int    `mapstructure:"max_size"`    // 每个日志文件最大尺寸 (MB)
	MaxBackups int    `mapstructure:"max_backups"` // 保留旧日志文件的最大个数
	MaxAge     int    `mapstructure:"max_age"`     // 保留旧日志文件的最大天数
	Compress   bool   `mapstructure:"compress"`
}

// Logger 封装 *slog.Logger 并记录服务名与模块名。
type Logger struct {
	*slog.Logger
	Service string
	Module  string

	handler slog.Handler
}

// TraceHandler 从 context 中提取 trace_id 与 span_id 注入日志记录。
type TraceHandler struct {
	slog.Handler
}

// Handle 注入追踪信息后交给被装饰的 Handler。
func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs 保持装饰器不被 With 剥离。
func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return &TraceHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLevel 解析日志级别，未知值按 info 处理。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel 运行期调整日志级别，对已创建的 Logger 同样生效。
func SetLevel(s string) {
	level.Set(ParseLevel(s))
}

// Level 当前日志级别。
func Level() slog.Level {
	return level.Level()
}

func jsonHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			return a
		},
	})
}

// NewFromConfig 按配置创建 Logger。配置了文件时使用 lumberjack 切割。
func NewFromConfig(cfg Config) *Logger {
	SetLevel(cfg.Level)

	var handler slog.Handler
	if cfg.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		handler = jsonHandler(fileWriter)
		if cfg.Stdout {
			handler = newMultiHandler(handler, jsonHandler(os.Stdout))
		}
	} else {
		handler = jsonHandler(os.Stdout)
	}
	return newLogger(handler, cfg.Service, cfg.Module)
}

// NewWithWriter 创建输出到 w 的 Logger。
func NewWithWriter(w io.Writer, service, module string) *Logger {
	return newLogger(jsonHandler(w), service, module)
}

func newLogger(handler slog.Handler, service, module string) *Logger {
	logger := slog.New(&TraceHandler{Handler: handler}).With(
		slog.String("service", service),
		slog.String("module", module),
	)
	return &Logger{Logger: logger, Service: service, Module: module, handler: handler}
}

// WithModule 派生一个模块名不同的 Logger。
func (l *Logger) WithModule(module string) *Logger {
	return newLogger(l.handler, l.Service, module)
}

// InitLogger 初始化全局默认 Logger 并设置为 slog 默认值，只生效一次。
func InitLogger(cfg Config) *Logger {
	once.Do(func() {
		defaultLogger = NewFromConfig(cfg)
		slog.SetDefault(defaultLogger.Logger)
	})
	return defaultLogger
}

// Default 返回全局默认 Logger，未初始化时以默认配置初始化。
func Default() *Logger {
	return InitLogger(Config{Service: "optionboard", Module: "default", Level: "info"})
}

func Info(ctx context.Context, msg string, args ...any) {
	Default().InfoContext(ctx, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	Default().WarnContext(ctx, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	Default().ErrorContext(ctx, msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	Default().DebugContext(ctx, msg, args...)
}

// LogDuration 返回一个在调用时记录耗时的函数，通常配合 defer 使用。
func (l *Logger) LogDuration(ctx context.Context, operation string, args ...any) func() {
	start := time.Now()
	return func() {
		logArgs := append(args, "duration", time.Since(start))
		l.InfoContext(ctx, fmt.Sprintf("%s finished", operation), logArgs...)
	}
}
