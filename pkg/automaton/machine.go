package automaton

import (
	"cmp"

	"github.com/junbin-yang/go-statekit/pkg/logger"
)

// Machine 非确定性多活动状态自动机
// 同一时刻可以有多个活动状态;每次 Poll 对所有活动状态的出边
// 反复求值直至不动点,单次 Poll 内每条转换至多触发一次
//
// 引擎假定由单一逻辑线程驱动 Reset/HandleEvent/Poll,
// 内部不做同步;并发访问需调用方自行加锁
type Machine[T comparable, E any, P cmp.Ordered] struct {
	startStates  map[T]struct{}
	endStates    map[T]struct{}
	activeStates map[T]struct{}
	transitions  map[T]*transitionList[T, E, P]
	entryActions map[T][]Action
	exitActions  map[T][]Action
	log          Logger
}

// Option 状态机选项
type Option[T comparable, E any, P cmp.Ordered] func(*Machine[T, E, P])

// WithLogger 替换诊断日志输出
func WithLogger[T comparable, E any, P cmp.Ordered](log Logger) Option[T, E, P] {
	return func(m *Machine[T, E, P]) {
		m.log = log
	}
}

// New 创建空状态机,拓扑通过 Internals 注册表面在构建期填充
func New[T comparable, E any, P cmp.Ordered](options ...Option[T, E, P]) *Machine[T, E, P] {
	m := &Machine[T, E, P]{
		startStates:  make(map[T]struct{}),
		endStates:    make(map[T]struct{}),
		activeStates: make(map[T]struct{}),
		transitions:  make(map[T]*transitionList[T, E, P]),
		entryActions: make(map[T][]Action),
		exitActions:  make(map[T][]Action),
		log:          logger.Default(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Active 检查状态是否处于活动集中
func (m *Machine[T, E, P]) Active(state T) bool {
	_, ok := m.activeStates[state]
	return ok
}

// Finished 活动集为空时状态机即告结束
func (m *Machine[T, E, P]) Finished() bool {
	return len(m.activeStates) == 0
}

// Reset 清空活动集并重新进入所有开始状态
// 未注册任何开始状态时只记录警告,状态机保持结束态
func (m *Machine[T, E, P]) Reset() {
	if len(m.startStates) == 0 {
		m.log.Warnf("machine has no start states, it will stay finished")
	}
	m.activeStates = make(map[T]struct{})
	for state := range m.startStates {
		m.enterState(state)
	}
}

// HandleEvent 将事件分发给所有活动状态出边上的全部条件,随后执行一次 Poll
// 事件分发只更新条件内部状态,转换的触发全部发生在 Poll 中
func (m *Machine[T, E, P]) HandleEvent(event E) {
	for state := range m.activeStates {
		if list, ok := m.transitions[state]; ok {
			for _, t := range list.items {
				t.handleEvent(event)
			}
		}
	}
	m.Poll()
}

// Poll 对活动状态的出边求值并触发转换,循环直至没有新转换触发
//
// 每一轮:
//  1. 对每个活动源状态按优先级降序扫描出边,跳过本次 Poll 已触发过的转换;
//     找到第一条有资格触发的转换后锁定其优先级档,
//     同档的其余有资格转换一并收集(支持非确定性扇出),
//     严格更低优先级的转换在本轮不再考虑
//  2. 先退出所有被收集的源状态,再执行所有被收集转换的动作链,
//     最后进入所有被收集的目标状态
//
// fired 集合保证每条转换在单次 Poll 内至多触发一次,
// 即便拓扑成环也必然终止
func (m *Machine[T, E, P]) Poll() {
	fired := make(map[*Transition[T, E, P]]struct{})
	for {
		exits := make(map[T]struct{})
		entries := make(map[T]struct{})
		var firing []*Transition[T, E, P]

		for state := range m.activeStates {
			list, ok := m.transitions[state]
			if !ok {
				continue
			}
			var winning P
			locked := false
			for _, t := range list.items {
				if _, done := fired[t]; done {
					continue
				}
				// 出边按降序排列,锁档后遇到更低优先级即可结束本状态的扫描
				if locked && t.priority != winning {
					break
				}
				if !t.isMet() {
					continue
				}
				if !locked {
					winning = t.priority
					locked = true
				}
				exits[state] = struct{}{}
				entries[t.destination] = struct{}{}
				firing = append(firing, t)
			}
		}

		if len(firing) == 0 {
			return
		}
		for state := range exits {
			m.exitState(state)
		}
		for _, t := range firing {
			m.log.Debugf("firing transition %v -> %v", t.source, t.destination)
			t.executeActions()
			fired[t] = struct{}{}
		}
		for state := range entries {
			m.enterState(state)
		}
	}
}

// enterState 进入状态
// 结束状态只执行进入动作,永远不会加入活动集;
// 已活动状态的重复进入被抑制,进入动作不会重复执行
func (m *Machine[T, E, P]) enterState(state T) {
	if _, end := m.endStates[state]; end {
		m.executeActions(m.entryActions[state])
		return
	}
	if m.Active(state) {
		return
	}
	m.activeStates[state] = struct{}{}
	m.executeActions(m.entryActions[state])
	m.resetTransitions(state)
}

// exitState 退出状态,非活动状态为空操作
func (m *Machine[T, E, P]) exitState(state T) {
	if !m.Active(state) {
		return
	}
	m.executeActions(m.exitActions[state])
	delete(m.activeStates, state)
}

// resetTransitions 重置某一源状态全部出边上的条件
func (m *Machine[T, E, P]) resetTransitions(state T) {
	if list, ok := m.transitions[state]; ok {
		for _, t := range list.items {
			t.resetConditions()
		}
	}
}

func (m *Machine[T, E, P]) executeActions(actions []Action) {
	for _, a := range actions {
		a.Execute()
	}
}
