package option

import (
	"math"
	"slices"
	"time"

	"github.com/wyfcoding/optionboard/xerrors"
)

// UpsertResult 一次 Upsert 的结果。
type UpsertResult string

const (
	Inserted UpsertResult = "inserted"
	Replaced UpsertResult = "replaced"
	Deleted  UpsertResult = "deleted"
	Ignored  UpsertResult = "ignored"
)

// zeroValue 价值低于此阈值的 Upsert 视为撤单。
const zeroValue = 1e-12

// Observer 接收 Board 的写入统计。
type Observer interface {
	ObserveUpsert(result UpsertResult)
}

// BoardOption 面板可选项。
type BoardOption func(*boardOptions)

type boardOptions struct {
	tolerance time.Duration
	observer  Observer
}

// WithMaturityTolerance 到期日相差不超过 d 的报价归入同一条链。默认按时间戳精确匹配。
func WithMaturityTolerance(d time.Duration) BoardOption {
	return func(o *boardOptions) {
		if d > 0 {
			o.tolerance = d
		}
	}
}

// WithObserver 设置写入观察者。
func WithObserver(obs Observer) BoardOption {
	return func(o *boardOptions) {
		o.observer = obs
	}
}

// BoardElement 面板可容纳的元素：单条报价或行权价簿。
type BoardElement interface {
	Quote | *StrikeBoard
	Element
}

// Board 多个到期日的期权链，按到期日升序排列。
// 到期日通过 map 定位，链内行权价通过跳表索引定位。
type Board[T BoardElement] struct {
	chains     []*Chain[T]
	byMaturity map[int64]*Chain[T]
	opts       boardOptions
	place      func(c *Chain[T], q Quote) UpsertResult
	remove     func(c *Chain[T], q Quote) bool
}

// NewBoard 创建面板。
func NewBoard[T BoardElement](opts ...BoardOption) *Board[T] {
	b := &Board[T]{byMaturity: make(map[int64]*Chain[T])}
	for _, opt := range opts {
		opt(&b.opts)
	}

	var place, remove any
	switch any((*T)(nil)).(type) {
	case *Quote:
		place, remove = placeQuote, removeQuote
	default: // *StrikeBoard
		place, remove = placeInBook, removeFromBook
	}
	b.place = place.(func(*Chain[T], Quote) UpsertResult)
	b.remove = remove.(func(*Chain[T], Quote) bool)
	return b
}

// NewQuoteBoard 每个 (到期日, 行权价, 方向, 类型) 保存一条报价。
func NewQuoteBoard(opts ...BoardOption) *Board[Quote] {
	return NewBoard[Quote](opts...)
}

// NewStrikeBoardBoard 每个 (到期日, 行权价, 类型) 保存一个行权价簿。
func NewStrikeBoardBoard(opts ...BoardOption) *Board[*StrikeBoard] {
	return NewBoard[*StrikeBoard](opts...)
}

// Upsert 写入报价：定位或创建到期日链，再定位或创建行权价元素。
// 对同一键重复写入只保留最后一次的值；价值为零的报价等价于 Delete。
func (b *Board[T]) Upsert(q Quote) UpsertResult {
	var res UpsertResult
	switch {
	case q.value.Amount() < zeroValue:
		res = Ignored
		if b.Delete(q) {
			res = Deleted
		}
	default:
		res = b.place(b.getOrCreate(q.maturity), q)
	}
	if b.opts.observer != nil {
		b.opts.observer.ObserveUpsert(res)
	}
	return res
}

// Delete 删除与报价同键的元素，清理空的行权价簿与空链。
func (b *Board[T]) Delete(q Quote) bool {
	c, ok := b.lookup(q.maturity)
	if !ok || !b.remove(c, q) {
		return false
	}
	if c.Len() == 0 {
		b.dropChain(c)
	}
	return true
}

// Chain 返回到期日对应的链。
func (b *Board[T]) Chain(maturity time.Time) (*Chain[T], bool) {
	return b.lookup(maturity)
}

// Chains 按到期日升序返回全部链。
func (b *Board[T]) Chains() []*Chain[T] {
	return slices.Clone(b.chains)
}

// Front 最近到期的链。
func (b *Board[T]) Front() (*Chain[T], error) {
	if len(b.chains) == 0 {
		return nil, xerrors.ErrEmptyChain.Derive("board has no chains")
	}
	return b.chains[0], nil
}

// Len 链的数量。
func (b *Board[T]) Len() int { return len(b.chains) }

// Size 全部链的元素总数。
func (b *Board[T]) Size() int {
	n := 0
	for _, c := range b.chains {
		n += c.Len()
	}
	return n
}

func (b *Board[T]) lookup(maturity time.Time) (*Chain[T], bool) {
	if c, ok := b.byMaturity[maturity.UnixNano()]; ok {
		return c, true
	}
	if b.opts.tolerance <= 0 || len(b.chains) == 0 {
		return nil, false
	}
	// 在有序链中找最近的到期日
	i, _ := slices.BinarySearchFunc(b.chains, maturity, func(c *Chain[T], t time.Time) int {
		return c.maturity.Compare(t)
	})
	var best *Chain[T]
	gap := time.Duration(math.MaxInt64)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(b.chains) {
			continue
		}
		d := b.chains[j].maturity.Sub(maturity).Abs()
		if d <= b.opts.tolerance && d < gap {
			best, gap = b.chains[j], d
		}
	}
	return best, best != nil
}

func (b *Board[T]) getOrCreate(maturity time.Time) *Chain[T] {
	if c, ok := b.lookup(maturity); ok {
		return c
	}
	c := &Chain[T]{maturity: maturity, index: newStrikeIndex()}
	i, _ := slices.BinarySearchFunc(b.chains, maturity, func(c *Chain[T], t time.Time) int {
		return c.maturity.Compare(t)
	})
	b.chains = slices.Insert(b.chains, i, c)
	b.byMaturity[maturity.UnixNano()] = c
	return c
}

func (b *Board[T]) dropChain(c *Chain[T]) {
	delete(b.byMaturity, c.maturity.UnixNano())
	b.chains = slices.DeleteFunc(b.chains, func(x *Chain[T]) bool { return x == c })
}

// --- 元素放置策略 ---

func placeQuote(c *Chain[Quote], q Quote) UpsertResult {
	for _, i := range c.slots(q.strike) {
		if e := c.elements[i]; e.side == q.side && e.optionType == q.optionType {
			c.elements[i] = q
			return Replaced
		}
	}
	appendIndexed(c, q)
	return Inserted
}

func removeQuote(c *Chain[Quote], q Quote) bool {
	for _, i := range c.slots(q.strike) {
		if e := c.elements[i]; e.side == q.side && e.optionType == q.optionType {
			removeAt(c, i)
			return true
		}
	}
	return false
}

func placeInBook(c *Chain[*StrikeBoard], q Quote) UpsertResult {
	for _, i := range c.slots(q.strike) {
		if book := c.elements[i]; book.OptionType() == q.optionType {
			if book.Upsert(q) {
				return Replaced
			}
			return Inserted
		}
	}
	book := NewStrikeBoard(q.strike, c.maturity)
	book.Push(q)
	appendIndexed(c, book)
	return Inserted
}

func removeFromBook(c *Chain[*StrikeBoard], q Quote) bool {
	for _, i := range c.slots(q.strike) {
		book := c.elements[i]
		if book.OptionType() != q.optionType {
			continue
		}
		if book.Delete(q.side, q.optionType) == 0 {
			return false
		}
		if book.Len() == 0 {
			removeAt(c, i)
		}
		return true
	}
	return false
}
