// Package ingest 把外部行情源转换为期权报价配置并写入报价板。
package ingest

import (
	"errors"
	"io"
	"log/slog"

	"github.com/wyfcoding/optionboard/option"
)

// Feed 报价配置来源。数据耗尽时 Next 返回 io.EOF。
type Feed interface {
	Next() (option.QuoteConfig, error)
}

// Stats 一次导入的统计。
type Stats struct {
	Rows    int
	Results map[option.UpsertResult]int
}

// Load 把 feed 中的全部报价写入 b。遇到第一个错误即停止，已写入的报价保留。
func Load[T option.BoardElement](feed Feed, b *option.Board[T]) (Stats, error) {
	stats := Stats{Results: make(map[option.UpsertResult]int)}
	for {
		cfg, err := feed.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		q, err := option.NewQuote(cfg)
		if err != nil {
			return stats, err
		}
		stats.Rows++
		stats.Results[b.Upsert(q)]++
	}
	slog.Debug("feed loaded", "rows", stats.Rows, "chains", b.Len(), "elements", b.Size())
	return stats, nil
}
