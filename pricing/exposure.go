package pricing

import (
	"math"

	"github.com/wyfcoding/optionboard/xerrors"
)

// ExposureKind 敞口类型，与希腊字母一一对应。
type ExposureKind GreekKind

// ExposureOf 返回希腊字母对应的敞口类型。
func ExposureOf(g GreekKind) ExposureKind { return ExposureKind(g) }

// Greek 返回敞口所基于的希腊字母。
func (k ExposureKind) Greek() GreekKind { return GreekKind(k) }

func (k ExposureKind) String() string {
	return GreekKind(k).String() + "_exposure"
}

// Exposure 计算持仓敞口: greekValue × openInterest × multiplier。
// openInterest 为 nil 表示报价未携带持仓量。
func Exposure(kind ExposureKind, greekValue float64, openInterest *float64, multiplier float64) (float64, error) {
	if openInterest == nil {
		return 0, xerrors.ErrMissingOpenInterest.Derive("%s requires open interest", kind)
	}
	if *openInterest < 0 || math.IsNaN(*openInterest) {
		return 0, xerrors.ErrInvalidInput.Derive("open interest must be non-negative, got %v", *openInterest)
	}
	return greekValue * *openInterest * multiplier, nil
}
