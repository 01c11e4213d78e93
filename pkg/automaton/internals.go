package automaton

import "cmp"

// Internals 状态机的注册与内省表面
// 仅供构建期的 Builder/导入器使用,引擎开始被轮询后不应再调用修改方法
type Internals[T comparable, E any, P cmp.Ordered] struct {
	m *Machine[T, E, P]
}

// Internals 返回注册表面
func (m *Machine[T, E, P]) Internals() *Internals[T, E, P] {
	return &Internals[T, E, P]{m: m}
}

// AddStartState 注册开始状态
// 注册即激活:状态在注册时就进入活动集,不等待 Reset;
// 同时是结束状态的除外,结束状态永远不会变为活动
func (i *Internals[T, E, P]) AddStartState(state T) {
	i.m.startStates[state] = struct{}{}
	if _, end := i.m.endStates[state]; !end {
		i.m.activeStates[state] = struct{}{}
	}
}

// AddEndState 注册结束状态
func (i *Internals[T, E, P]) AddEndState(state T) {
	i.m.endStates[state] = struct{}{}
}

// AddTransition 将转换追加到其源状态的出边集合
func (i *Internals[T, E, P]) AddTransition(t *Transition[T, E, P]) {
	list, ok := i.m.transitions[t.source]
	if !ok {
		list = &transitionList[T, E, P]{}
		i.m.transitions[t.source] = list
	}
	list.insert(t)
}

// AddEntryActions 追加状态的进入动作,多次调用累积而非覆盖
func (i *Internals[T, E, P]) AddEntryActions(state T, actions ...Action) {
	i.m.entryActions[state] = append(i.m.entryActions[state], actions...)
}

// AddExitActions 追加状态的退出动作,多次调用累积而非覆盖
func (i *Internals[T, E, P]) AddExitActions(state T, actions ...Action) {
	i.m.exitActions[state] = append(i.m.exitActions[state], actions...)
}

// StartStates 返回开始状态快照
func (i *Internals[T, E, P]) StartStates() []T {
	return stateSlice(i.m.startStates)
}

// EndStates 返回结束状态快照
func (i *Internals[T, E, P]) EndStates() []T {
	return stateSlice(i.m.endStates)
}

// SourceStates 返回拥有出边的状态快照
func (i *Internals[T, E, P]) SourceStates() []T {
	states := make([]T, 0, len(i.m.transitions))
	for state := range i.m.transitions {
		states = append(states, state)
	}
	return states
}

// Transitions 返回某一源状态的出边快照,按优先级降序
func (i *Internals[T, E, P]) Transitions(source T) []*Transition[T, E, P] {
	list, ok := i.m.transitions[source]
	if !ok {
		return nil
	}
	return append([]*Transition[T, E, P]{}, list.items...)
}

func stateSlice[T comparable](set map[T]struct{}) []T {
	states := make([]T, 0, len(set))
	for state := range set {
		states = append(states, state)
	}
	return states
}
