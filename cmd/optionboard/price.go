package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wyfcoding/optionboard/pricing"
)

type priceArgs struct {
	optionType string
	spot       float64
	strike     float64
	expiry     float64
	rate       float64
	dividend   float64
	vol        float64
	premium    float64
}

func newPriceCmd(a *app) *cobra.Command {
	args := &priceArgs{}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a single contract and print all Greeks",
		Example: "  optionboard price --type call --spot 100 --strike 105 --expiry 0.5 --rate 0.05 --vol 0.2\n" +
			"  optionboard price --type put --spot 100 --strike 95 --expiry 0.25 --premium 1.8",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPrice(cmd, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&args.optionType, "type", "call", "call or put")
	f.Float64Var(&args.spot, "spot", 0, "underlying price")
	f.Float64Var(&args.strike, "strike", 0, "strike price")
	f.Float64Var(&args.expiry, "expiry", 0, "time to expiry in years")
	f.Float64Var(&args.rate, "rate", -1, "risk-free rate, defaults to board.risk_free_rate")
	f.Float64Var(&args.dividend, "div", -1, "dividend yield, defaults to board.dividend_yield")
	f.Float64Var(&args.vol, "vol", 0, "volatility; ignored when --premium is set")
	f.Float64Var(&args.premium, "premium", 0, "market premium to solve implied volatility from")
	_ = cmd.MarkFlagRequired("spot")
	_ = cmd.MarkFlagRequired("strike")
	_ = cmd.MarkFlagRequired("expiry")
	return cmd
}

func (a *app) runPrice(cmd *cobra.Command, args *priceArgs) error {
	typ, err := pricing.ParseOptionType(args.optionType)
	if err != nil {
		return err
	}
	rate, div := args.rate, args.dividend
	if !cmd.Flags().Changed("rate") {
		rate = a.cfg.Board.RiskFreeRate
	}
	if !cmd.Flags().Changed("div") {
		div = a.cfg.Board.DividendYield
	}

	calc := pricing.NewCalculator(a.solver())
	spot := decimal.NewFromFloat(args.spot)
	strike := decimal.NewFromFloat(args.strike)
	expiry := decimal.NewFromFloat(args.expiry)
	r := decimal.NewFromFloat(rate)
	q := decimal.NewFromFloat(div)

	vol := decimal.NewFromFloat(args.vol)
	if args.premium > 0 {
		if vol, err = calc.ImpliedVolatility(typ, spot, strike, expiry, r, q, decimal.NewFromFloat(args.premium)); err != nil {
			return err
		}
	}
	res, err := calc.Calculate(typ, spot, strike, expiry, r, vol, q)
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "field", "value")
	t.Append([]string{"price", res.Price.StringFixed(6)})
	t.Append([]string{"iv", vol.StringFixed(6)})
	for _, g := range pricing.AllGreeks {
		t.Append([]string{g.String(), res.Greek(g).StringFixed(6)})
	}
	t.Append([]string{"theta/day", res.ThetaPerDay().StringFixed(6)})
	t.Append([]string{"vega/pt", res.VegaPerPoint().StringFixed(6)})
	t.Append([]string{"rho/pt", res.RhoPerPoint().StringFixed(6)})
	t.Render()

	a.printMetrics(cmd)
	return nil
}
