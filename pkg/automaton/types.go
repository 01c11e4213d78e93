package automaton

// Condition 转换上的守卫条件,可跨事件保存内部状态
type Condition[E any] interface {
	// HandleEvent 接收事件并更新内部状态,本身不触发任何转换
	HandleEvent(event E)

	// IsMet 返回条件当前是否满足
	IsMet() bool

	// Reset 清除内部状态,在条件所属源状态(重新)进入时调用
	Reset()
}

// Action 状态进入/退出或转换触发时执行的动作
type Action interface {
	Execute()
}

// ActionFunc 将普通函数适配为 Action
type ActionFunc func()

func (f ActionFunc) Execute() { f() }

// Logger 引擎诊断输出接口,logger 包的实现满足此接口
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}
