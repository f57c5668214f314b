package ingest

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/wyfcoding/optionboard/option"
	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/xerrors"
)

// Row CSV 行。除 strike、maturity、asset_price、type 外均可留空或省略整列；
// premium 优先于 iv。
type Row struct {
	Strike        string `csv:"strike"`
	Maturity      string `csv:"maturity"`
	AssetPrice    string `csv:"asset_price"`
	RiskFreeRate  string `csv:"risk_free_rate"`
	DividendYield string `csv:"dividend_yield"`
	Type          string `csv:"type"`
	Side          string `csv:"side"`
	Premium       string `csv:"premium"`
	IV            string `csv:"iv"`
	OpenInterest  string `csv:"open_interest"`
	Volume        string `csv:"volume"`
}

// Defaults 行中缺省字段的取值。
type Defaults struct {
	RiskFreeRate  float64
	DividendYield float64
	AsOf          time.Time
	Solver        *pricing.Solver
}

// maturityLayouts 到期日支持的格式，纯日期按 UTC 零点处理。
var maturityLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// CSVFeed 从 CSV 读取报价。
type CSVFeed struct {
	rows     []*Row
	pos      int
	defaults Defaults
}

var _ Feed = (*CSVFeed)(nil)

// NewCSVFeed 解码 r 中的全部行。
func NewCSVFeed(r io.Reader, d Defaults) (*CSVFeed, error) {
	var rows []*Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, xerrors.ErrInvalidInput.Derive("decode csv").WithCause(err)
	}
	return &CSVFeed{rows: rows, defaults: d}, nil
}

// OpenCSV 读取文件。
func OpenCSV(path string, d Defaults) (*CSVFeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.ErrInvalidInput.Derive("open %s", path).WithCause(err)
	}
	defer f.Close()
	return NewCSVFeed(f, d)
}

// Len 行数
func (f *CSVFeed) Len() int { return len(f.rows) }

// Next 返回下一行对应的报价配置。
func (f *CSVFeed) Next() (option.QuoteConfig, error) {
	if f.pos >= len(f.rows) {
		return option.QuoteConfig{}, io.EOF
	}
	row := f.rows[f.pos]
	f.pos++
	cfg, err := f.convert(row)
	if err != nil {
		// 表头占第 1 行
		return option.QuoteConfig{}, xerrors.Wrap(err, xerrors.ErrInvalidArg, "csv line "+strconv.Itoa(f.pos+1))
	}
	return cfg, nil
}

func (f *CSVFeed) convert(row *Row) (option.QuoteConfig, error) {
	cfg := option.QuoteConfig{
		RiskFreeRate:  f.defaults.RiskFreeRate,
		DividendYield: f.defaults.DividendYield,
		AsOf:          f.defaults.AsOf,
		Solver:        f.defaults.Solver,
	}
	var err error
	if cfg.Strike, err = required("strike", row.Strike); err != nil {
		return cfg, err
	}
	if cfg.AssetPrice, err = required("asset_price", row.AssetPrice); err != nil {
		return cfg, err
	}
	if cfg.Maturity, err = parseMaturity(row.Maturity); err != nil {
		return cfg, err
	}
	if cfg.OptionType, err = pricing.ParseOptionType(row.Type); err != nil {
		return cfg, err
	}
	if cfg.Side, err = option.ParseSide(row.Side); err != nil {
		return cfg, err
	}
	if v, ok, err := optional("risk_free_rate", row.RiskFreeRate); err != nil {
		return cfg, err
	} else if ok {
		cfg.RiskFreeRate = v
	}
	if v, ok, err := optional("dividend_yield", row.DividendYield); err != nil {
		return cfg, err
	} else if ok {
		cfg.DividendYield = v
	}

	premium, hasPremium, err := optional("premium", row.Premium)
	if err != nil {
		return cfg, err
	}
	iv, hasIV, err := optional("iv", row.IV)
	if err != nil {
		return cfg, err
	}
	switch {
	case hasPremium:
		cfg.Value = option.PriceValue(premium)
	case hasIV:
		cfg.Value = option.VolatilityValue(iv)
	default:
		return cfg, xerrors.ErrInvalidInput.Derive("one of premium or iv is required")
	}

	oi, hasOI, err := optional("open_interest", row.OpenInterest)
	if err != nil {
		return cfg, err
	}
	vol, hasVol, err := optional("volume", row.Volume)
	if err != nil {
		return cfg, err
	}
	if hasOI || hasVol {
		cfg.Additional = &option.AdditionalData{}
		if hasOI {
			cfg.Additional.OpenInterest = option.Float(oi)
		}
		if hasVol {
			cfg.Additional.Volume = option.Float(vol)
		}
	}
	return cfg, nil
}

func optional(column, s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, xerrors.ErrInvalidInput.Derive("column %s: %q is not a number", column, s)
	}
	return v, true, nil
}

func required(column, s string) (float64, error) {
	v, ok, err := optional(column, s)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, xerrors.ErrInvalidInput.Derive("column %s is required", column)
	}
	return v, nil
}

func parseMaturity(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range maturityLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, xerrors.ErrInvalidInput.Derive("column maturity: unsupported time %q", s)
}
