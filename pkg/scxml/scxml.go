// Package scxml 读取SCXML格式的一个子集并构建状态机
//
// 支持程度与原始格式差异较大:
//   - 普通/开始/结束状态: 支持
//   - onentry/onexit、转换上的event与cond: 支持,文本含义由调用方解释
//   - 复合状态(cluster)与parallel: 展平处理,子状态混入同一状态机
//   - 可执行内容: 不支持
package scxml

import (
	"cmp"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/junbin-yang/go-statekit/pkg/automaton"
	"github.com/junbin-yang/go-statekit/pkg/logger"
)

// Interpreter 将SCXML文本片段解释为引擎可用的值
// 状态名/条件表达式/动作表达式的具体含义完全由调用方决定
type Interpreter[T comparable, E any, P cmp.Ordered] interface {
	// StateName 将状态名解释为状态值
	StateName(name string) T

	// Condition 将cond属性解释为守卫条件
	Condition(expr string) automaton.Condition[E]

	// Action 将event属性或onentry/onexit文本解释为动作
	Action(expr string) automaton.Action
}

// Parser SCXML解析器
type Parser[T comparable, E any, P cmp.Ordered] struct {
	interp          Interpreter[T, E, P]
	defaultPriority P
	log             *logger.Logger
}

// NewParser 创建解析器,文件中的转换一律使用 defaultPriority
func NewParser[T comparable, E any, P cmp.Ordered](interp Interpreter[T, E, P], defaultPriority P) *Parser[T, E, P] {
	return &Parser[T, E, P]{
		interp:          interp,
		defaultPriority: defaultPriority,
		log:             logger.Default(),
	}
}

// SetLogger 替换告警输出
func (p *Parser[T, E, P]) SetLogger(l *logger.Logger) {
	p.log = l
}

// node 通用XML节点
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []node     `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Parse 解析SCXML文档并返回构建好的状态机
func (p *Parser[T, E, P]) Parse(r io.Reader) (*automaton.Machine[T, E, P], error) {
	var root node
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("parse scxml: %w", err)
	}

	b := automaton.NewBuilder[T, E, P](p.defaultPriority)
	p.parseState(&root, b)
	return b.Machine(), nil
}

// parseState 递归解析状态元素,返回其对应的状态值
func (p *Parser[T, E, P]) parseState(el *node, b *automaton.Builder[T, E, P]) T {
	if initial, ok := el.attr("initial"); ok {
		b.AddStartState(p.interp.StateName(initial))
	}
	name, _ := el.attr("id")
	state := p.interp.StateName(name)

	for i := range el.Children {
		child := &el.Children[i]
		switch child.XMLName.Local {
		case "scxml", "state", "parallel":
			p.parseState(child, b)
		case "final":
			b.AddEndState(p.parseState(child, b))
		case "transition":
			p.parseTransition(child, state, name, b)
		case "onentry":
			b.AddEntryActions(state, p.interp.Action(strings.TrimSpace(child.Text)))
		case "onexit":
			b.AddExitActions(state, p.interp.Action(strings.TrimSpace(child.Text)))
		}
	}
	return state
}

func (p *Parser[T, E, P]) parseTransition(el *node, source T, sourceName string, b *automaton.Builder[T, E, P]) {
	target, ok := el.attr("target")
	if !ok {
		// 配置级告警,不中断解析
		p.log.Warnf("state %s has a transition going nowhere", sourceName)
		return
	}

	condition := automaton.Always[E]()
	if expr, ok := el.attr("cond"); ok {
		condition = p.interp.Condition(expr)
	}

	var actions []automaton.Action
	if expr, ok := el.attr("event"); ok {
		actions = append(actions, p.interp.Action(expr))
	}

	b.AddTransition(source, p.interp.StateName(target),
		[]automaton.Condition[E]{condition}, p.defaultPriority, actions...)
}
