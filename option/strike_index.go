package option

import "math/bits"

const maxLevel = 16 // 跳表最大层数，足够覆盖 4^16 个行权价。

// strikeNode 跳表节点，slots 为该行权价在链中的元素下标。
type strikeNode struct {
	strike float64
	slots  []int
	next   []*strikeNode
}

// strikeIndex 以行权价为键的有序跳表，为期权链提供 O(log n) 查找。
// 与所属的 Chain 一样不做同步。
type strikeIndex struct {
	header    *strikeNode
	randState uint64
	level     int
	size      int
}

func newStrikeIndex() *strikeIndex {
	return &strikeIndex{
		header:    &strikeNode{next: make([]*strikeNode, maxLevel)},
		randState: 0x9E3779B97F4A7C15,
		level:     1,
	}
}

// fastRand Xorshift 伪随机数。
func (ix *strikeIndex) fastRand() uint32 {
	s := ix.randState
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	ix.randState = s
	return uint32(s)
}

// randomLevel 以 P=1/4 的概率逐层晋升。
func (ix *strikeIndex) randomLevel() int {
	r := ix.fastRand()
	r &= r >> 1
	return min(1+bits.TrailingZeros32(r)/2, maxLevel)
}

func (ix *strikeIndex) seek(strike float64, update *[maxLevel]*strikeNode) *strikeNode {
	curr := ix.header
	for i := ix.level - 1; i >= 0; i-- {
		for curr.next[i] != nil && curr.next[i].strike < strike {
			curr = curr.next[i]
		}
		if update != nil {
			update[i] = curr
		}
	}
	return curr.next[0]
}

// lookup 返回行权价对应的元素下标。
func (ix *strikeIndex) lookup(strike float64) []int {
	if n := ix.seek(strike, nil); n != nil && n.strike == strike {
		return n.slots
	}
	return nil
}

// add 为行权价追加一个元素下标。
func (ix *strikeIndex) add(strike float64, slot int) {
	var update [maxLevel]*strikeNode
	if n := ix.seek(strike, &update); n != nil && n.strike == strike {
		n.slots = append(n.slots, slot)
		return
	}

	lvl := ix.randomLevel()
	if lvl > ix.level {
		for i := ix.level; i < lvl; i++ {
			update[i] = ix.header
		}
		ix.level = lvl
	}
	node := &strikeNode{strike: strike, slots: []int{slot}, next: make([]*strikeNode, lvl)}
	for i := range lvl {
		node.next[i] = update[i].next[i]
		update[i].next[i] = node
	}
	ix.size++
}

// strikes 按升序返回全部行权价。
func (ix *strikeIndex) strikes() []float64 {
	out := make([]float64, 0, ix.size)
	for n := ix.header.next[0]; n != nil; n = n.next[0] {
		out = append(out, n.strike)
	}
	return out
}

// ordered 按行权价升序返回元素下标，同一行权价内保持插入顺序。
func (ix *strikeIndex) ordered() []int {
	var out []int
	for n := ix.header.next[0]; n != nil; n = n.next[0] {
		out = append(out, n.slots...)
	}
	return out
}
