package timeseries

// Float 支持算术运算的数值类型。
type Float interface {
	~float32 | ~float64
}

// zip 按位置组合两个序列，长度取较短者，时间戳取自 a。
func zip[T Float](a, b *TimeSeries[T], op func(x, y T) T) *TimeSeries[T] {
	n := min(a.Len(), b.Len())
	out := &TimeSeries[T]{clock: a.clock, points: make([]Point[T], n)}
	for i := range n {
		out.points[i] = Point[T]{Time: a.points[i].Time, Value: op(a.points[i].Value, b.points[i].Value)}
	}
	return out
}

func Add[T Float](a, b *TimeSeries[T]) *TimeSeries[T] {
	return zip(a, b, func(x, y T) T { return x + y })
}

func Sub[T Float](a, b *TimeSeries[T]) *TimeSeries[T] {
	return zip(a, b, func(x, y T) T { return x - y })
}

func Mul[T Float](a, b *TimeSeries[T]) *TimeSeries[T] {
	return zip(a, b, func(x, y T) T { return x * y })
}

// Div 逐点相除，除数为零时按 IEEE 754 得到 ±Inf 或 NaN。
func Div[T Float](a, b *TimeSeries[T]) *TimeSeries[T] {
	return zip(a, b, func(x, y T) T { return x / y })
}

// Scale 每个点乘以常数 k。
func Scale[T Float](s *TimeSeries[T], k T) *TimeSeries[T] {
	return Map(s, func(v T) T { return v * k })
}
