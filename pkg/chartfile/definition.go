// Package chartfile 从YAML/JSON定义文件构建状态机
//
// 文件只描述拓扑(状态、转换、优先级),条件与动作通过 Registry
// 按名字绑定到调用方提供的实现
package chartfile

import (
	"fmt"

	"github.com/junbin-yang/go-statekit/pkg/automaton"
	"github.com/junbin-yang/go-statekit/pkg/logger"
)

// Machine 定义文件构建出的状态机类型
// 文件中的状态与事件都是名字,优先级为整数
type Machine = automaton.Machine[string, string, int]

// Definition 定义文件中的状态机描述
type Definition struct {
	Start       []string            `yaml:"start" json:"start"`             // 开始状态
	End         []string            `yaml:"end" json:"end"`                 // 结束状态
	States      map[string]StateDef `yaml:"states" json:"states"`           // 状态的进入/退出动作
	Transitions []TransitionDef     `yaml:"transitions" json:"transitions"` // 转换列表
}

// StateDef 状态的动作定义,值为注册表中的动作名
type StateDef struct {
	Entry []string `yaml:"entry" json:"entry"`
	Exit  []string `yaml:"exit" json:"exit"`
}

// TransitionDef 转换定义
type TransitionDef struct {
	From     string   `yaml:"from" json:"from"`
	To       string   `yaml:"to" json:"to"`
	On       string   `yaml:"on" json:"on"`             // 事件名,生成"收到该事件后满足"的条件
	When     []string `yaml:"when" json:"when"`         // 注册表中的条件名
	Priority *int     `yaml:"priority" json:"priority"` // 省略时使用默认优先级
	Actions  []string `yaml:"actions" json:"actions"`
}

// Build 将定义编译为状态机
// 没有目标状态的转换记录告警后跳过;引用未注册的条件/动作名则返回错误
func Build(def *Definition, registry *Registry, defaultPriority int) (*Machine, error) {
	b := automaton.NewBuilder[string, string, int](defaultPriority)

	for state, sd := range def.States {
		entry, err := resolveActions(registry, sd.Entry)
		if err != nil {
			return nil, fmt.Errorf("state %s: %w", state, err)
		}
		exit, err := resolveActions(registry, sd.Exit)
		if err != nil {
			return nil, fmt.Errorf("state %s: %w", state, err)
		}
		b.AddEntryActions(state, entry...)
		b.AddExitActions(state, exit...)
	}

	for i := range def.Transitions {
		td := &def.Transitions[i]
		if td.To == "" {
			logger.Warnf("state %s has a transition going nowhere", td.From)
			continue
		}

		var conditions []automaton.Condition[string]
		if td.On != "" {
			conditions = append(conditions, automaton.OnEvent(td.On))
		}
		for _, name := range td.When {
			c, err := registry.condition(name)
			if err != nil {
				return nil, fmt.Errorf("transition %s -> %s: %w", td.From, td.To, err)
			}
			conditions = append(conditions, c)
		}
		if len(conditions) == 0 {
			conditions = append(conditions, automaton.Always[string]())
		}

		actions, err := resolveActions(registry, td.Actions)
		if err != nil {
			return nil, fmt.Errorf("transition %s -> %s: %w", td.From, td.To, err)
		}

		priority := defaultPriority
		if td.Priority != nil {
			priority = *td.Priority
		}
		b.AddTransition(td.From, td.To, conditions, priority, actions...)
	}

	// 结束状态先于开始状态注册,避免既是开始又是结束的状态被激活
	for _, state := range def.End {
		b.AddEndState(state)
	}
	for _, state := range def.Start {
		b.AddStartState(state)
	}

	return b.Machine(), nil
}

func resolveActions(registry *Registry, names []string) ([]automaton.Action, error) {
	actions := make([]automaton.Action, 0, len(names))
	for _, name := range names {
		a, err := registry.action(name)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
