package automaton

import "cmp"

// Builder 构建期注册入口,是 Internals 之上的一层薄封装
// 提供默认优先级,供手写拓扑和各类定义文件导入器共用
type Builder[T comparable, E any, P cmp.Ordered] struct {
	machine         *Machine[T, E, P]
	internals       *Internals[T, E, P]
	defaultPriority P
}

// NewBuilder 创建构建器,defaultPriority 用于未显式指定优先级的转换
func NewBuilder[T comparable, E any, P cmp.Ordered](defaultPriority P, options ...Option[T, E, P]) *Builder[T, E, P] {
	m := New[T, E, P](options...)
	return &Builder[T, E, P]{
		machine:         m,
		internals:       m.Internals(),
		defaultPriority: defaultPriority,
	}
}

// AddStartState 注册开始状态
func (b *Builder[T, E, P]) AddStartState(state T) *Builder[T, E, P] {
	b.internals.AddStartState(state)
	return b
}

// AddEndState 注册结束状态
func (b *Builder[T, E, P]) AddEndState(state T) *Builder[T, E, P] {
	b.internals.AddEndState(state)
	return b
}

// AddEntryActions 追加状态的进入动作
func (b *Builder[T, E, P]) AddEntryActions(state T, actions ...Action) *Builder[T, E, P] {
	b.internals.AddEntryActions(state, actions...)
	return b
}

// AddExitActions 追加状态的退出动作
func (b *Builder[T, E, P]) AddExitActions(state T, actions ...Action) *Builder[T, E, P] {
	b.internals.AddExitActions(state, actions...)
	return b
}

// AddTransition 注册完整指定的转换
func (b *Builder[T, E, P]) AddTransition(source, destination T, conditions []Condition[E], priority P, actions ...Action) *Builder[T, E, P] {
	b.internals.AddTransition(NewTransition(source, destination, conditions, priority, actions))
	return b
}

// AddTransitionWhen 以默认优先级注册无动作的转换
func (b *Builder[T, E, P]) AddTransitionWhen(source, destination T, conditions ...Condition[E]) *Builder[T, E, P] {
	return b.AddTransition(source, destination, conditions, b.defaultPriority)
}

// DefaultPriority 返回默认优先级
func (b *Builder[T, E, P]) DefaultPriority() P {
	return b.defaultPriority
}

// Machine 返回构建完成的状态机
func (b *Builder[T, E, P]) Machine() *Machine[T, E, P] {
	return b.machine
}
