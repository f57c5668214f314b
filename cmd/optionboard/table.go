package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/wyfcoding/optionboard/option"
)

var upsertResults = []option.UpsertResult{option.Inserted, option.Replaced, option.Deleted, option.Ignored}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_RIGHT)
	return t
}

// num 格式化数值，err 非空时输出占位符。
func num(v float64, err error) string {
	if err != nil {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 0, 64)
}
