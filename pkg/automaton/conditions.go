package automaton

// ConditionFunc 将无状态谓词适配为 Condition,HandleEvent/Reset 为空操作
type ConditionFunc[E any] func() bool

func (f ConditionFunc[E]) HandleEvent(E) {}
func (f ConditionFunc[E]) IsMet() bool   { return f() }
func (f ConditionFunc[E]) Reset()        {}

// Always 返回永远满足的条件
func Always[E any]() Condition[E] {
	return ConditionFunc[E](func() bool { return true })
}

// Never 返回永不满足的条件,用于屏蔽某条转换(多用于测试场景)
func Never[E any]() Condition[E] {
	return ConditionFunc[E](func() bool { return false })
}

// eventCondition 收到任一指定事件后保持满足,直到 Reset
type eventCondition[E comparable] struct {
	events []E
	met    bool
}

// OnEvent 返回在收到指定事件后满足的条件
func OnEvent[E comparable](event E) Condition[E] {
	return &eventCondition[E]{events: []E{event}}
}

// OnEvents 返回在收到任一指定事件后满足的条件
func OnEvents[E comparable](events ...E) Condition[E] {
	return &eventCondition[E]{events: events}
}

func (c *eventCondition[E]) HandleEvent(event E) {
	if c.met {
		return
	}
	for _, e := range c.events {
		if e == event {
			c.met = true
			return
		}
	}
}

func (c *eventCondition[E]) IsMet() bool { return c.met }
func (c *eventCondition[E]) Reset()      { c.met = false }

// afterEvents 收到 n 个事件后满足
// 基于事件计数的延迟条件,需要超时语义时由调用方按节拍事件投喂
type afterEvents[E any] struct {
	n    int
	seen int
}

// AfterEvents 返回在收到 n 个事件(任意事件)后满足的条件
func AfterEvents[E any](n int) Condition[E] {
	return &afterEvents[E]{n: n}
}

func (c *afterEvents[E]) HandleEvent(E) {
	if c.seen < c.n {
		c.seen++
	}
}

func (c *afterEvents[E]) IsMet() bool { return c.seen >= c.n }
func (c *afterEvents[E]) Reset()      { c.seen = 0 }
