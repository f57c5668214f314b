package timeseries

import (
	"github.com/montanaflynn/stats"

	"github.com/wyfcoding/optionboard/xerrors"
)

// Summary 数值序列的描述统计。
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // 总体标准差
	Min    float64
	Max    float64
	Median float64
}

// Summarize 计算数值序列的描述统计，空序列返回 ErrEmptySeries。
func Summarize[T Float](s *TimeSeries[T]) (Summary, error) {
	if s.Len() == 0 {
		return Summary{}, xerrors.ErrEmptySeries.Derive("summary of empty series")
	}
	data := make(stats.Float64Data, s.Len())
	for i, p := range s.points {
		data[i] = float64(p.Value)
	}

	var (
		sum Summary
		err error
	)
	sum.Count = len(data)
	if sum.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, xerrors.Wrap(err, xerrors.ErrInternal, "mean")
	}
	if sum.StdDev, err = stats.StandardDeviation(data); err != nil {
		return Summary{}, xerrors.Wrap(err, xerrors.ErrInternal, "standard deviation")
	}
	if sum.Min, err = stats.Min(data); err != nil {
		return Summary{}, xerrors.Wrap(err, xerrors.ErrInternal, "min")
	}
	if sum.Max, err = stats.Max(data); err != nil {
		return Summary{}, xerrors.Wrap(err, xerrors.ErrInternal, "max")
	}
	if sum.Median, err = stats.Median(data); err != nil {
		return Summary{}, xerrors.Wrap(err, xerrors.ErrInternal, "median")
	}
	return sum, nil
}
