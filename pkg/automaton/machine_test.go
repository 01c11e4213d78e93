package automaton

import (
	"fmt"
	"reflect"
	"sort"
	"testing"
)

// recordAction 把标记追加到日志切片,用于断言动作执行次序
func recordAction(log *[]string, mark string) Action {
	return ActionFunc(func() {
		*log = append(*log, mark)
	})
}

func count(log []string, mark string) int {
	n := 0
	for _, m := range log {
		if m == mark {
			n++
		}
	}
	return n
}

// manualCondition 手动控制满足与否,并统计Reset次数
type manualCondition struct {
	met    bool
	resets int
	events int
}

func (c *manualCondition) HandleEvent(string) { c.events++ }
func (c *manualCondition) IsMet() bool        { return c.met }
func (c *manualCondition) Reset()             { c.resets++ }

// testLogger 收集告警,验证非致命告警路径
type testLogger struct {
	warnings []string
}

func (l *testLogger) Debugf(format string, v ...interface{}) {}
func (l *testLogger) Warnf(format string, v ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, v...))
}

func TestMachine_Scenario(t *testing.T) {
	var log []string
	b := NewBuilder[string, string, int](1)
	b.AddStartState("idle").
		AddEndState("done").
		AddEntryActions("running", recordAction(&log, "enter-running")).
		AddExitActions("idle", recordAction(&log, "exit-idle")).
		AddEntryActions("done", recordAction(&log, "enter-done")).
		AddTransitionWhen("idle", "running", OnEvent("go")).
		AddTransitionWhen("running", "done", OnEvent("finish"))
	m := b.Machine()

	m.Reset()
	if !m.Active("idle") {
		t.Fatal("重置后开始状态应处于活动集")
	}
	if m.Finished() {
		t.Fatal("存在活动状态时不应结束")
	}

	m.HandleEvent("go")
	if m.Active("idle") || !m.Active("running") {
		t.Errorf("状态转换失败: idle=%v running=%v", m.Active("idle"), m.Active("running"))
	}
	if count(log, "exit-idle") != 1 || count(log, "enter-running") != 1 {
		t.Errorf("进入/退出动作执行次数错误: %v", log)
	}

	m.HandleEvent("finish")
	if count(log, "enter-done") != 1 {
		t.Errorf("结束状态的进入动作应执行一次: %v", log)
	}
	if m.Active("done") {
		t.Error("结束状态不应加入活动集")
	}
	if !m.Finished() {
		t.Error("活动集为空时状态机应结束")
	}
}

func TestMachine_ResetSemantics(t *testing.T) {
	m := New[string, string, int]()
	in := m.Internals()
	in.AddEndState("b")
	in.AddStartState("a")
	in.AddStartState("b")

	cond := &manualCondition{}
	in.AddTransition(NewTransition[string, string, int]("a", "c", []Condition[string]{cond}, 1, nil))

	m.Reset()
	if !m.Active("a") {
		t.Error("开始状态a应处于活动集")
	}
	if m.Active("b") {
		t.Error("同时是结束状态的开始状态不应被激活")
	}
	if cond.resets != 1 {
		t.Errorf("进入状态时应重置其出边条件: resets=%d", cond.resets)
	}

	m.Reset()
	if cond.resets != 2 {
		t.Errorf("再次重置应再次重置条件: resets=%d", cond.resets)
	}
}

func TestMachine_NoStartStates(t *testing.T) {
	tl := &testLogger{}
	m := New(WithLogger[string, string, int](tl))

	m.Reset()
	if !m.Finished() {
		t.Error("没有开始状态的状态机应保持结束态")
	}
	if len(tl.warnings) != 1 {
		t.Errorf("应记录一条非致命告警: %v", tl.warnings)
	}
}

func TestMachine_IdempotentReentry(t *testing.T) {
	var log []string
	m := New[string, string, int]()
	in := m.Internals()
	in.AddEntryActions("a", recordAction(&log, "enter-a"))

	cond := &manualCondition{}
	in.AddTransition(NewTransition[string, string, int]("a", "b", []Condition[string]{cond}, 1, nil))

	m.enterState("a")
	m.enterState("a")
	if count(log, "enter-a") != 1 {
		t.Errorf("重复进入已活动状态不应重复执行进入动作: %v", log)
	}
	if cond.resets != 1 {
		t.Errorf("重复进入已活动状态不应重复重置条件: resets=%d", cond.resets)
	}
}

func TestMachine_StartStateActiveOnRegistration(t *testing.T) {
	m := New[string, string, int]()
	in := m.Internals()

	in.AddStartState("a")
	if !m.Active("a") {
		t.Error("开始状态注册后应立即活动,无需Reset")
	}

	in.AddEndState("z")
	in.AddStartState("z")
	if m.Active("z") {
		t.Error("结束状态即使注册为开始状态也不应活动")
	}
}

func TestMachine_AtMostOncePerPoll(t *testing.T) {
	var log []string
	b := NewBuilder[string, string, int](1)
	b.AddStartState("a").
		AddTransition("a", "b", []Condition[string]{Always[string]()}, 1, recordAction(&log, "a->b")).
		AddTransition("b", "a", []Condition[string]{Always[string]()}, 1, recordAction(&log, "b->a"))
	m := b.Machine()

	m.Poll()
	if count(log, "a->b") != 1 || count(log, "b->a") != 1 {
		t.Errorf("环形拓扑中每条转换单次Poll至多触发一次: %v", log)
	}
	if !m.Active("a") || m.Active("b") {
		t.Errorf("环走完一圈后应回到a: a=%v b=%v", m.Active("a"), m.Active("b"))
	}

	// 新的Poll重新开始计数,环会再走一圈
	m.Poll()
	if count(log, "a->b") != 2 || count(log, "b->a") != 2 {
		t.Errorf("新的Poll应重新允许触发: %v", log)
	}
}

func TestMachine_PriorityPrecedence(t *testing.T) {
	var log []string
	b := NewBuilder[string, string, int](1)
	b.AddStartState("s").
		AddTransition("s", "x", []Condition[string]{Always[string]()}, 5, recordAction(&log, "five-x")).
		AddTransition("s", "y", []Condition[string]{Always[string]()}, 5, recordAction(&log, "five-y")).
		AddTransition("s", "z", []Condition[string]{Always[string]()}, 3, recordAction(&log, "three-z"))
	m := b.Machine()

	m.Poll()
	if count(log, "five-x") != 1 || count(log, "five-y") != 1 {
		t.Errorf("同优先级的两条转换应一起触发: %v", log)
	}
	if count(log, "three-z") != 0 {
		t.Errorf("低优先级转换不应触发: %v", log)
	}
	if !m.Active("x") || !m.Active("y") || m.Active("z") {
		t.Errorf("活动集错误: x=%v y=%v z=%v", m.Active("x"), m.Active("y"), m.Active("z"))
	}
}

func TestMachine_PriorityBandPerPass(t *testing.T) {
	// 优先级档按轮锁定:高优先级自环触发并耗尽后,
	// 低优先级转换在下一轮仍有机会触发
	highCond := &manualCondition{met: true}
	lowCond := &manualCondition{met: true}
	var log []string

	b := NewBuilder[string, string, int](1)
	b.AddStartState("s").
		AddTransition("s", "s", []Condition[string]{highCond}, 5, recordAction(&log, "high")).
		AddTransition("s", "s3", []Condition[string]{lowCond}, 3, recordAction(&log, "low"))
	m := b.Machine()

	m.Poll()
	want := []string{"high", "low"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("高优先级先触发,低优先级下一轮接棒: got %v, want %v", log, want)
	}
	if !m.Active("s3") {
		t.Error("低优先级转换触发后应进入s3")
	}
}

func TestMachine_FixpointChain(t *testing.T) {
	var log []string
	b := NewBuilder[string, string, int](1)
	b.AddStartState("a").AddEndState("e")
	chain := []string{"a", "b", "c", "d", "e"}
	for i := 0; i+1 < len(chain); i++ {
		from, to := chain[i], chain[i+1]
		b.AddTransition(from, to, []Condition[string]{Always[string]()}, 1,
			recordAction(&log, from+"->"+to))
	}
	m := b.Machine()

	m.Poll()
	want := []string{"a->b", "b->c", "c->d", "d->e"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("链式转换应在单次Poll内全部触发: got %v, want %v", log, want)
	}
	if !m.Finished() {
		t.Error("链走到结束状态后状态机应结束")
	}
}

func TestMachine_ExitFireEnterOrdering(t *testing.T) {
	var log []string
	b := NewBuilder[string, string, int](1)
	b.AddStartState("s").
		AddExitActions("s", recordAction(&log, "exit-s")).
		AddEntryActions("d", recordAction(&log, "enter-d")).
		AddTransition("s", "d", []Condition[string]{Always[string]()}, 1, recordAction(&log, "fire"))
	m := b.Machine()

	m.Poll()
	want := []string{"exit-s", "fire", "enter-d"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("单轮内应先退出、再触发、最后进入: got %v, want %v", log, want)
	}
}

func TestMachine_EventDistribution(t *testing.T) {
	activeCond := &manualCondition{}
	inactiveCond := &manualCondition{}

	m := New[string, string, int]()
	in := m.Internals()
	in.AddStartState("a")
	in.AddTransition(NewTransition[string, string, int]("a", "b", []Condition[string]{activeCond}, 1, nil))
	in.AddTransition(NewTransition[string, string, int]("c", "d", []Condition[string]{inactiveCond}, 1, nil))

	m.HandleEvent("tick")
	if activeCond.events != 1 {
		t.Errorf("活动状态出边的条件应收到事件: events=%d", activeCond.events)
	}
	if inactiveCond.events != 0 {
		t.Errorf("非活动状态出边的条件不应收到事件: events=%d", inactiveCond.events)
	}
}

func TestInternals_Introspection(t *testing.T) {
	m := New[string, string, int]()
	in := m.Internals()
	in.AddStartState("a")
	in.AddEndState("z")
	in.AddTransition(NewTransition[string, string, int]("a", "b", []Condition[string]{Always[string]()}, 1, nil))
	in.AddTransition(NewTransition[string, string, int]("a", "z", []Condition[string]{Never[string]()}, 9, nil))
	in.AddTransition(NewTransition[string, string, int]("b", "z", []Condition[string]{Always[string]()}, 1, nil))

	if got := in.StartStates(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("开始状态快照错误: %v", got)
	}
	if got := in.EndStates(); !reflect.DeepEqual(got, []string{"z"}) {
		t.Errorf("结束状态快照错误: %v", got)
	}

	sources := in.SourceStates()
	sort.Strings(sources)
	if !reflect.DeepEqual(sources, []string{"a", "b"}) {
		t.Errorf("源状态快照错误: %v", sources)
	}

	ts := in.Transitions("a")
	if len(ts) != 2 {
		t.Fatalf("出边数量错误: %d", len(ts))
	}
	if ts[0].Priority() != 9 || ts[1].Priority() != 1 {
		t.Errorf("出边应按优先级降序: %d, %d", ts[0].Priority(), ts[1].Priority())
	}
	if in.Transitions("nope") != nil {
		t.Error("没有出边的状态应返回nil")
	}
}

func TestMachine_EntryActionsAccumulate(t *testing.T) {
	var log []string
	m := New[string, string, int]()
	in := m.Internals()
	in.AddEntryActions("a", recordAction(&log, "first"))
	in.AddEntryActions("a", recordAction(&log, "second"))
	in.AddStartState("a")

	m.Reset()
	if !reflect.DeepEqual(log, []string{"first", "second"}) {
		t.Errorf("进入动作应累积并按注册顺序执行: %v", log)
	}
}
