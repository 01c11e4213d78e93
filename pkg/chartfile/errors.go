package chartfile

import "errors"

var (
	// ErrUnknownCondition 定义文件引用了未注册的条件名
	ErrUnknownCondition = errors.New("unknown condition")

	// ErrUnknownAction 定义文件引用了未注册的动作名
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnsupportedFormat 无法根据文件后缀识别序列化格式
	ErrUnsupportedFormat = errors.New("unsupported definition format")
)
