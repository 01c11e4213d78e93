package chartfile

import "time"

// Option 加载器选项
type Option func(*Loader)

// WithSerializer 设置默认序列化器
func WithSerializer(s Serializer) Option {
	return func(l *Loader) {
		l.serializer = s
	}
}

// WithForceFormat 强制指定定义文件格式(无视文件后缀)
func WithForceFormat(s Serializer) Option {
	return func(l *Loader) {
		l.forceFormat = s
	}
}

// WithFormats 设置支持的格式列表
func WithFormats(formats ...Serializer) Option {
	return func(l *Loader) {
		l.supportedFormats = formats
	}
}

// WithDefaultPriority 设置文件未指定优先级时的默认值
func WithDefaultPriority(priority int) Option {
	return func(l *Loader) {
		l.defaultPriority = priority
	}
}

// WithWatch 启用定义文件监听(文件变化自动重建状态机)
func WithWatch(enable bool, interval time.Duration) Option {
	return func(l *Loader) {
		l.enableWatch = enable
		l.watchDebounceInterval = interval
		if interval == 0 {
			l.watchDebounceInterval = 500 * time.Millisecond
		}
	}
}
