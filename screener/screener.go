// Package screener 使用 expr 表达式筛选期权报价。
//
// 表达式在以下事实上求值：
//
//	strike, spot, tau, premium, iv, delta, gamma, vega   float64
//	type  ("call" / "put"), side ("bid" / "ask" / "none") string
//	open_interest, volume                                 float64，缺失时为 nil
//
// 缺失字段可用 `(open_interest ?? 0) > 100` 的形式给出默认值。
package screener

import (
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/wyfcoding/optionboard/option"
	"github.com/wyfcoding/optionboard/xerrors"
)

// factSchema 声明事实名称及类型，供编译期检查使用。
// type 同名的内置函数被禁用，标识符解析为事实。
var factSchema = map[string]any{
	"strike":        0.0,
	"spot":          0.0,
	"tau":           0.0,
	"type":          "",
	"side":          "",
	"premium":       0.0,
	"iv":            0.0,
	"delta":         0.0,
	"gamma":         0.0,
	"vega":          0.0,
	"open_interest": nil,
	"volume":        nil,
}

// FactNames 返回可在表达式中引用的事实名称，按字母序排列。
func FactNames() []string {
	names := make([]string, 0, len(factSchema))
	for name := range factSchema {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Rule 筛选规则
type Rule struct {
	ID         string         `json:"id"          mapstructure:"id"`
	Name       string         `json:"name"        mapstructure:"name"`
	Expression string         `json:"expression"  mapstructure:"expression"`
	Metadata   map[string]any `json:"metadata"    mapstructure:"metadata"`
}

// Result 单条规则对单个报价的判定结果
type Result struct {
	RuleID   string         `json:"rule_id"`
	Passed   bool           `json:"passed"`
	Metadata map[string]any `json:"metadata"`
}

// Screener 持有已编译的规则。规则增删与求值可以并发进行。
type Screener struct {
	mu       sync.RWMutex
	order    []string
	rules    map[string]*Rule
	programs map[string]*vm.Program
}

// New 创建空的筛选器。
func New() *Screener {
	return &Screener{
		rules:    make(map[string]*Rule),
		programs: make(map[string]*vm.Program),
	}
}

// AddRule 编译并添加规则，同 ID 的规则被替换。
func (s *Screener) AddRule(r Rule) error {
	if r.ID == "" {
		return xerrors.ErrInvalidInput.Derive("rule id is required")
	}
	program, err := expr.Compile(r.Expression, expr.Env(factSchema), expr.DisableBuiltin("type"))
	if err != nil {
		return xerrors.ErrInvalidInput.Derive("compile rule [%s]", r.ID).WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.rules[r.ID] = &r
	s.programs[r.ID] = program
	return nil
}

// RemoveRule 删除规则，返回是否存在。
func (s *Screener) RemoveRule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return false
	}
	delete(s.rules, id)
	delete(s.programs, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return true
}

// Len 规则数量
func (s *Screener) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Facts 计算报价的求值事实。需要定价的字段失败时返回错误。
func Facts(q option.Quote) (map[string]any, error) {
	premium, err := q.Premium()
	if err != nil {
		return nil, err
	}
	iv, err := q.IV()
	if err != nil {
		return nil, err
	}
	delta, err := q.Delta()
	if err != nil {
		return nil, err
	}
	gamma, err := q.Gamma()
	if err != nil {
		return nil, err
	}
	vega, err := q.Vega()
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"strike":        q.Strike(),
		"spot":          q.AssetPrice(),
		"tau":           q.TimeToExpiry(),
		"type":          strings.ToLower(string(q.OptionType())),
		"side":          q.Side().String(),
		"premium":       premium,
		"iv":            iv,
		"delta":         delta,
		"gamma":         gamma,
		"vega":          vega,
		"open_interest": deref(q.OpenInterest()),
		"volume":        deref(q.Volume()),
	}, nil
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Execute 对报价执行单条规则。
func (s *Screener) Execute(ruleID string, q option.Quote) (*Result, error) {
	s.mu.RLock()
	program, ok := s.programs[ruleID]
	rule := s.rules[ruleID]
	s.mu.RUnlock()
	if !ok {
		return nil, xerrors.ErrInvalidInput.Derive("rule [%s] not found", ruleID)
	}

	facts, err := Facts(q)
	if err != nil {
		return nil, err
	}
	passed, err := run(ruleID, program, facts)
	if err != nil {
		return nil, err
	}
	return &Result{RuleID: ruleID, Passed: passed, Metadata: rule.Metadata}, nil
}

// run 非布尔结果视为未命中。
func run(ruleID string, program *vm.Program, facts map[string]any) (bool, error) {
	output, err := expr.Run(program, facts)
	if err != nil {
		return false, xerrors.ErrInvalidInput.Derive("execute rule [%s]", ruleID).WithCause(err)
	}
	passed, _ := output.(bool)
	return passed, nil
}

// Match 报告报价是否满足全部规则。没有规则时任何报价都满足。
// 无法定价或规则执行出错的报价视为不满足，并返回错误。
func (s *Screener) Match(q option.Quote) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return true, nil
	}

	facts, err := Facts(q)
	if err != nil {
		return false, err
	}
	for _, id := range s.order {
		passed, err := run(id, s.programs[id], facts)
		if err != nil || !passed {
			return false, err
		}
	}
	return true, nil
}

// MatchAny 返回报价命中的规则，按添加顺序排列。
func (s *Screener) MatchAny(q option.Quote) ([]*Result, error) {
	facts, err := Facts(q)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []*Result
	for _, id := range s.order {
		passed, err := run(id, s.programs[id], facts)
		if err != nil {
			continue
		}
		if passed {
			results = append(results, &Result{RuleID: id, Passed: true, Metadata: s.rules[id].Metadata})
		}
	}
	return results, nil
}

// FilterChain 返回满足全部规则的报价组成的新链，保持原有顺序。
// 无法求值的报价被跳过。
func (s *Screener) FilterChain(c *option.Chain[option.Quote]) *option.Chain[option.Quote] {
	return c.Filter(func(q option.Quote) bool {
		ok, err := s.Match(q)
		return err == nil && ok
	})
}
