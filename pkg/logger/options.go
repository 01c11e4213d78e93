package logger

import "go.uber.org/zap"

// Option 日志器选项,直接复用zap的Option
type Option = zap.Option

// AddCaller 输出调用方文件与行号
func AddCaller() Option {
	return zap.AddCaller()
}

// AddCallerSkip 跳过指定层数的调用栈
func AddCallerSkip(skip int) Option {
	return zap.AddCallerSkip(skip)
}

// WithStacktrace 在指定级别及以上附带调用栈
func WithStacktrace(level Level) Option {
	return zap.AddStacktrace(level)
}
