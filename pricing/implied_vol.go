package pricing

import (
	"errors"
	"log/slog"
	"math"

	"github.com/wyfcoding/optionboard/xerrors"
)

// 求解器默认参数
const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
	DefaultSigmaMin      = 1e-6
	DefaultSigmaMax      = 10.0

	// fallbackSeed 初始猜测落在区间外时使用的起点
	fallbackSeed = 0.3
	// vegaFloor 低于此值视为 vega 下溢，切换到二分法
	vegaFloor = 1e-10
)

// Method 隐含波动率求解所用的方法。
type Method string

const (
	MethodNewton    Method = "newton"
	MethodBisection Method = "bisection"
	MethodNone      Method = "none"
)

// Outcome 求解结果分类。
type Outcome string

const (
	OutcomeConverged   Outcome = "converged"
	OutcomeNoArbitrage Outcome = "no_arbitrage"
	OutcomeInvalid     Outcome = "invalid_input"
	OutcomeFailed      Outcome = "convergence_failure"
)

// Observer 接收每次隐含波动率求解的统计信息。
type Observer interface {
	ObserveSolve(method Method, outcome Outcome, iterations int)
}

// Solver 隐含波动率求解器：Brenner-Subrahmanyam 初值 + Newton-Raphson，必要时退化为二分法。
// 零值不可用，请使用 DefaultSolver 或显式填充全部字段。
type Solver struct {
	Tolerance     float64 // 价格绝对误差
	MaxIterations int
	SigmaMin      float64
	SigmaMax      float64
	Observer      Observer
}

// DefaultSolver 返回默认参数的求解器。
func DefaultSolver() Solver {
	return Solver{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		SigmaMin:      DefaultSigmaMin,
		SigmaMax:      DefaultSigmaMax,
	}
}

// ImpliedVolatility 使用默认求解器反解隐含波动率。
func ImpliedVolatility(p Params, premium float64) (float64, error) {
	return DefaultSolver().ImpliedVolatility(p, premium)
}

// ImpliedVolatility 求解 price(σ) = premium，p.Sigma 被忽略。
func (s Solver) ImpliedVolatility(p Params, premium float64) (float64, error) {
	sigma, method, iters, err := s.solve(p, premium)
	if s.Observer != nil {
		s.Observer.ObserveSolve(method, outcomeOf(err), iters)
	}
	return sigma, err
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeConverged
	case errors.Is(err, xerrors.ErrNoArbitrage):
		return OutcomeNoArbitrage
	case errors.Is(err, xerrors.ErrMathConvergence):
		return OutcomeFailed
	default:
		return OutcomeInvalid
	}
}

func (s Solver) solve(p Params, premium float64) (float64, Method, int, error) {
	if s.MaxIterations <= 0 || !(s.Tolerance > 0) || !(s.SigmaMin > 0) || !(s.SigmaMax > s.SigmaMin) || s.SigmaMax > DefaultSigmaMax {
		return 0, MethodNone, 0, xerrors.ErrInvalidConfig.Derive("solver tolerance=%v iterations=%d sigma=[%v,%v]",
			s.Tolerance, s.MaxIterations, s.SigmaMin, s.SigmaMax)
	}
	lower, upper, err := Bounds(p)
	if err != nil {
		return 0, MethodNone, 0, err
	}
	if math.IsNaN(premium) || premium < lower || premium > upper {
		return 0, MethodNone, 0, xerrors.ErrNoArbitrage.Derive("premium %v outside [%v, %v]", premium, lower, upper).
			WithContext("strike", p.Strike).
			WithContext("type", string(p.Type))
	}

	sigma := s.seed(p, premium)
	for i := 1; i <= s.MaxIterations; i++ {
		t := newTerms(p.WithSigma(sigma))
		diff := t.price() - premium
		if math.Abs(diff) < s.Tolerance {
			return sigma, MethodNewton, i, nil
		}
		vega := t.vega()
		if vega < vegaFloor {
			slog.Debug("newton vega underflow, switching to bisection", "sigma", sigma, "vega", vega, "iteration", i)
			break
		}
		next := sigma - diff/vega
		if math.IsNaN(next) || next < s.SigmaMin || next > s.SigmaMax {
			slog.Debug("newton iterate out of range, switching to bisection", "sigma", next, "iteration", i)
			break
		}
		sigma = next
	}
	return s.bisect(p, premium)
}

// seed Brenner-Subrahmanyam 近似: σ₀ = √(2π/T) · premium / (S e^{-qT})
func (s Solver) seed(p Params, premium float64) float64 {
	fwdSpot := p.Spot * math.Exp(-p.Dividend*p.Expiry)
	sigma := math.Sqrt(2*math.Pi/p.Expiry) * premium / fwdSpot
	if !(sigma > s.SigmaMin) || sigma >= s.SigmaMax {
		return math.Min(math.Max(fallbackSeed, s.SigmaMin), s.SigmaMax)
	}
	return sigma
}

func (s Solver) bisect(p Params, premium float64) (float64, Method, int, error) {
	lo, hi := s.SigmaMin, s.SigmaMax
	for i := 1; i <= s.MaxIterations; i++ {
		mid := 0.5 * (lo + hi)
		diff := newTerms(p.WithSigma(mid)).price() - premium
		if math.Abs(diff) < s.Tolerance {
			return mid, MethodBisection, i, nil
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, MethodBisection, s.MaxIterations, xerrors.ErrMathConvergence.Derive(
		"implied volatility did not converge within %d iterations, bracket [%v, %v]", s.MaxIterations, lo, hi).
		WithContext("strike", p.Strike).
		WithContext("premium", premium)
}
