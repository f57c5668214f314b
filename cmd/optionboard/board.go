package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/optionboard/ingest"
	"github.com/wyfcoding/optionboard/option"
	"github.com/wyfcoding/optionboard/pricing"
	"github.com/wyfcoding/optionboard/screener"
	"github.com/wyfcoding/optionboard/xerrors"
)

type boardArgs struct {
	csvPath    string
	asOf       string
	rules      []string
	exposure   string
	multiplier float64
}

func newBoardCmd(a *app) *cobra.Command {
	args := &boardArgs{}
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Load quotes from CSV into an option board and print every maturity chain",
		Example: "  optionboard board --csv quotes.csv --as-of 2024-01-02\n" +
			"  optionboard board --csv quotes.csv --rule 'type == \"call\" && delta > 0.2' --exposure vanna",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBoard(cmd, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&args.csvPath, "csv", "", "quotes csv file")
	f.StringVar(&args.asOf, "as-of", "", "valuation time (RFC3339 or YYYY-MM-DD), defaults to now")
	f.StringArrayVar(&args.rules, "rule", nil, "screening expression evaluated on mid quotes, repeatable")
	f.StringVar(&args.exposure, "exposure", "gamma", "greek used for the per-chain exposure")
	f.Float64Var(&args.multiplier, "multiplier", 0, "contract multiplier, defaults to board.contract_multiplier")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, xerrors.ErrInvalidInput.Derive("unsupported --as-of %q", s)
}

func (a *app) runBoard(cmd *cobra.Command, args *boardArgs) error {
	asOf, err := parseAsOf(args.asOf)
	if err != nil {
		return err
	}
	kind, err := pricing.ParseGreek(args.exposure)
	if err != nil {
		return err
	}
	multiplier := args.multiplier
	if !cmd.Flags().Changed("multiplier") {
		multiplier = a.cfg.Board.ContractMultiplier
	}

	scr := screener.New()
	for i, expr := range args.rules {
		if err := scr.AddRule(screener.Rule{ID: "rule-" + strconv.Itoa(i+1), Expression: expr}); err != nil {
			return err
		}
	}

	solver := a.solver()
	feed, err := ingest.OpenCSV(args.csvPath, ingest.Defaults{
		RiskFreeRate:  a.cfg.Board.RiskFreeRate,
		DividendYield: a.cfg.Board.DividendYield,
		AsOf:          asOf,
		Solver:        &solver,
	})
	if err != nil {
		return err
	}

	var obs option.Observer
	if a.collector != nil {
		obs = a.collector
	}
	books := option.NewStrikeBoardBoard(a.cfg.BoardOptions(obs)...)
	done := a.logger.LogDuration(cmd.Context(), "load board", "file", args.csvPath)
	stats, err := ingest.Load(feed, books)
	if err != nil {
		return err
	}
	done()
	a.logger.Info("board loaded", "rows", stats.Rows, "chains", books.Len(), "books", books.Size())

	out := cmd.OutOrStdout()
	for _, chain := range books.Chains() {
		mids := renderChain(cmd, chain, scr)
		summarizeChain(cmd, mids, kind, multiplier)
	}
	if books.Len() == 0 {
		fmt.Fprintln(out, "board is empty")
	}

	a.printMetrics(cmd)
	return nil
}

// renderChain 输出一条到期日链，返回通过筛选的中间价报价。
func renderChain(cmd *cobra.Command, chain *option.Chain[*option.StrikeBoard], scr *screener.Screener) *option.Chain[option.Quote] {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nmaturity %s\n", chain.Maturity().Format(time.RFC3339))

	t := newTable(out, "strike", "type", "bid", "ask", "mid", "iv", "delta", "gamma", "vega", "oi")
	var mids []option.Quote
	for _, book := range option.SortedByStrike(chain).Elements() {
		mid, err := book.Mid()
		if err != nil {
			continue
		}
		if ok, err := scr.Match(mid); err != nil || !ok {
			continue
		}
		mids = append(mids, mid)

		bid, bidErr := book.BestBid()
		ask, askErr := book.BestAsk()
		t.Append([]string{
			strconv.FormatFloat(book.Strike(), 'f', -1, 64),
			string(book.OptionType()),
			num(premium(bid, bidErr)),
			num(premium(ask, askErr)),
			num(mid.Premium()),
			num(mid.IV()),
			num(mid.Delta()),
			num(mid.Gamma()),
			num(mid.Vega()),
			optNum(mid.OpenInterest()),
		})
	}
	t.Render()
	return option.NewChain(chain.Maturity(), mids...)
}

func premium(q option.Quote, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	return q.Premium()
}

// summarizeChain 输出平值、25/50 delta 行权价与敞口。
func summarizeChain(cmd *cobra.Command, mids *option.Chain[option.Quote], kind pricing.GreekKind, multiplier float64) {
	if mids.Len() == 0 {
		return
	}
	strike := func(q option.Quote, err error) string {
		if err != nil {
			return "-"
		}
		return strconv.FormatFloat(q.Strike(), 'f', -1, 64)
	}
	t := newTable(cmd.OutOrStdout(), "atm", "call 25d", "call 50d", "put 25d", "put 50d", pricing.ExposureOf(kind).String())
	t.Append([]string{
		strike(option.ATM(mids)),
		strike(option.Call25Delta(mids)),
		strike(option.Call50Delta(mids)),
		strike(option.Put25Delta(mids)),
		strike(option.Put50Delta(mids)),
		num(option.ChainExposure(mids, kind, multiplier)),
	})
	t.Render()
}
