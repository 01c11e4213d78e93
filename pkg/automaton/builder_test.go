package automaton

import "testing"

func TestBuilder_DefaultPriority(t *testing.T) {
	b := NewBuilder[string, string, int](42)
	b.AddTransitionWhen("a", "b", Always[string]())

	ts := b.Machine().Internals().Transitions("a")
	if len(ts) != 1 {
		t.Fatalf("出边数量错误: %d", len(ts))
	}
	if ts[0].Priority() != 42 {
		t.Errorf("应使用默认优先级: got %d, want 42", ts[0].Priority())
	}
	if b.DefaultPriority() != 42 {
		t.Errorf("默认优先级访问器错误: %d", b.DefaultPriority())
	}
}

func TestBuilder_Chaining(t *testing.T) {
	var log []string
	b := NewBuilder[string, string, int](1)
	b.AddStartState("a").
		AddEndState("b").
		AddEntryActions("b", recordAction(&log, "enter-b")).
		AddTransitionWhen("a", "b", Always[string]())
	m := b.Machine()

	m.Poll()
	if !m.Finished() {
		t.Error("链式构建的状态机应正常运行到结束")
	}
	if count(log, "enter-b") != 1 {
		t.Errorf("进入动作应执行一次: %v", log)
	}
}
