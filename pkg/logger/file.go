package logger

import (
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFileWriter 按大小滚动的文件输出
// maxSizeMB 单文件上限,maxBackups 保留个数,maxAgeDays 保留天数
func NewFileWriter(filename string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   compress,
	}
}

// NewRotateWriter 按时间滚动的文件输出
// pattern 中可使用strftime占位符,如 app.%Y%m%d.log
func NewRotateWriter(pattern string, maxAge, rotationTime time.Duration) (io.Writer, error) {
	return rotatelogs.New(
		pattern,
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotationTime),
	)
}
