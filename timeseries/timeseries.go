// Package timeseries 提供按插入顺序保存 (时间戳, 值) 的泛型时间序列。
//
// 序列只追加、不重排：较晚写入的点可以带有更早的时间戳。
package timeseries

import (
	"slices"
	"time"
)

// Point 序列中的一个点。
type Point[T any] struct {
	Time  time.Time
	Value T
}

// Option 序列可选项。
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock 替换 Push 使用的时钟。
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// TimeSeries 只追加的时间序列。非并发安全。
type TimeSeries[T any] struct {
	points []Point[T]
	clock  func() time.Time
}

// New 创建空序列。
func New[T any](opts ...Option) *TimeSeries[T] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &TimeSeries[T]{clock: o.clock}
}

// Push 以当前时刻追加一个值。
func (s *TimeSeries[T]) Push(v T) {
	s.PushAt(s.clock(), v)
}

// PushAt 以指定时间戳追加一个值。
func (s *TimeSeries[T]) PushAt(t time.Time, v T) {
	s.points = append(s.points, Point[T]{Time: t, Value: v})
}

func (s *TimeSeries[T]) Len() int { return len(s.points) }

// At 返回第 i 个点。
func (s *TimeSeries[T]) At(i int) Point[T] { return s.points[i] }

// Points 返回全部点的副本。
func (s *TimeSeries[T]) Points() []Point[T] { return slices.Clone(s.points) }

// Values 按插入顺序返回全部值。
func (s *TimeSeries[T]) Values() []T {
	out := make([]T, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Timestamps 按插入顺序返回全部时间戳。
func (s *TimeSeries[T]) Timestamps() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Time
	}
	return out
}

// Map 逐点变换，保留时间戳与长度。
func Map[T, U any](s *TimeSeries[T], f func(T) U) *TimeSeries[U] {
	out := &TimeSeries[U]{clock: s.clock, points: make([]Point[U], len(s.points))}
	for i, p := range s.points {
		out.points[i] = Point[U]{Time: p.Time, Value: f(p.Value)}
	}
	return out
}

// MapErr 逐点变换，遇到第一个错误即停止并返回该错误。
func MapErr[T, U any](s *TimeSeries[T], f func(T) (U, error)) (*TimeSeries[U], error) {
	out := &TimeSeries[U]{clock: s.clock, points: make([]Point[U], 0, len(s.points))}
	for _, p := range s.points {
		v, err := f(p.Value)
		if err != nil {
			return nil, err
		}
		out.points = append(out.points, Point[U]{Time: p.Time, Value: v})
	}
	return out, nil
}
