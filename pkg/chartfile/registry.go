package chartfile

import (
	"fmt"

	"github.com/junbin-yang/go-statekit/pkg/automaton"
)

// Registry 将定义文件中的名字绑定到具体的条件/动作实现
// 条件按工厂注册:每条转换持有独立的条件实例,内部状态互不共享
type Registry struct {
	conditions map[string]func() automaton.Condition[string]
	actions    map[string]automaton.Action
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{
		conditions: make(map[string]func() automaton.Condition[string]),
		actions:    make(map[string]automaton.Action),
	}
}

// RegisterCondition 注册条件工厂
func (r *Registry) RegisterCondition(name string, factory func() automaton.Condition[string]) *Registry {
	r.conditions[name] = factory
	return r
}

// RegisterAction 注册动作
func (r *Registry) RegisterAction(name string, action automaton.Action) *Registry {
	r.actions[name] = action
	return r
}

// RegisterActionFunc 注册函数形式的动作
func (r *Registry) RegisterActionFunc(name string, fn func()) *Registry {
	return r.RegisterAction(name, automaton.ActionFunc(fn))
}

func (r *Registry) condition(name string) (automaton.Condition[string], error) {
	factory, ok := r.conditions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCondition, name)
	}
	return factory(), nil
}

func (r *Registry) action(name string) (automaton.Action, error) {
	action, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return action, nil
}
