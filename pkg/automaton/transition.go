package automaton

import (
	"cmp"
	"sort"
)

// Transition 不可变的转换边:源状态、目标状态、条件链、优先级、动作链
// 所有条件同时满足("与"语义)时转换才有资格触发
type Transition[T comparable, E any, P cmp.Ordered] struct {
	source      T
	destination T
	conditions  []Condition[E]
	priority    P
	actions     []Action
}

// NewTransition 创建转换,conditions 与 actions 在构建后不可再修改
func NewTransition[T comparable, E any, P cmp.Ordered](source, destination T, conditions []Condition[E], priority P, actions []Action) *Transition[T, E, P] {
	return &Transition[T, E, P]{
		source:      source,
		destination: destination,
		conditions:  append([]Condition[E]{}, conditions...),
		priority:    priority,
		actions:     append([]Action{}, actions...),
	}
}

// Source 返回源状态
func (t *Transition[T, E, P]) Source() T { return t.source }

// Destination 返回目标状态
func (t *Transition[T, E, P]) Destination() T { return t.destination }

// Priority 返回优先级
func (t *Transition[T, E, P]) Priority() P { return t.priority }

// handleEvent 将事件分发给每个条件,只更新条件内部状态
func (t *Transition[T, E, P]) handleEvent(event E) {
	for _, c := range t.conditions {
		c.HandleEvent(event)
	}
}

// isMet 检查条件链是否全部满足
func (t *Transition[T, E, P]) isMet() bool {
	for _, c := range t.conditions {
		if !c.IsMet() {
			return false
		}
	}
	return true
}

// resetConditions 重置条件链的内部状态
func (t *Transition[T, E, P]) resetConditions() {
	for _, c := range t.conditions {
		c.Reset()
	}
}

// executeActions 按注册顺序执行动作链
func (t *Transition[T, E, P]) executeActions() {
	for _, a := range t.actions {
		a.Execute()
	}
}

// transitionList 按优先级降序维护某一源状态的全部出边
// 相同优先级之间保持注册顺序
type transitionList[T comparable, E any, P cmp.Ordered] struct {
	items []*Transition[T, E, P]
}

// insert 插入转换并保持降序
func (l *transitionList[T, E, P]) insert(t *Transition[T, E, P]) {
	idx := sort.Search(len(l.items), func(i int) bool {
		return cmp.Less(l.items[i].priority, t.priority)
	})
	l.items = append(l.items, nil)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = t
}
