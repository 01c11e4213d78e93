package chartfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/junbin-yang/go-statekit/pkg/logger"
)

// Loader 状态机定义文件加载器
// 负责定位定义文件、选择序列化格式、编译为状态机,
// 并可选地监听文件变化自动重建
type Loader struct {
	registry         *Registry
	definitionPath   string       // 定义文件路径
	serializer       Serializer   // 当前使用的序列化器
	forceFormat      Serializer   // 强制指定的格式(优先级最高)
	supportedFormats []Serializer // 支持的格式列表
	defaultPriority  int          // 文件未指定优先级时的默认值
	once             sync.Once    // 确保只加载一次
	mu               sync.RWMutex // 读写锁
	loadErr          error        // 加载错误
	machine          *Machine     // 当前编译出的状态机

	// 定义文件监听相关
	enableWatch           bool              // 是否启用监听
	watchDebounceInterval time.Duration     // 防抖间隔
	watcher               *fsnotify.Watcher // 文件监听器
	watchQuit             chan struct{}     // 监听退出信号
	watchOnce             sync.Once         // 确保监听只启动一次

	// 重建回调
	callbacks []func(old, new *Machine)
}

// NewLoader 创建加载器实例
// registry: 条件/动作名字绑定表
// options: 加载器选项
func NewLoader(registry *Registry, options ...Option) *Loader {
	if registry == nil {
		panic("chartfile registry cannot be nil")
	}

	l := &Loader{
		registry:              registry,
		serializer:            &YAMLSerializer{},
		supportedFormats:      []Serializer{&YAMLSerializer{}, &JSONSerializer{}},
		watchQuit:             make(chan struct{}),
		watchDebounceInterval: 500 * time.Millisecond,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// Load 加载定义文件并编译状态机
func (l *Loader) Load(path string) error {
	l.once.Do(func() {
		var err error

		if err = validateDefinitionPath(path); err != nil {
			l.loadErr = fmt.Errorf("invalid definition path: %w", err)
			return
		}
		l.definitionPath = path

		// 选择序列化器(强制格式 > 后缀识别)
		if err = l.chooseSerializer(path); err != nil {
			l.loadErr = fmt.Errorf("choose serializer failed: %w", err)
			return
		}

		// 解析并编译
		if l.machine, err = l.compile(); err != nil {
			l.loadErr = fmt.Errorf("compile definition failed: %w", err)
			return
		}

		// 启动文件监听(如果启用)
		if l.enableWatch {
			_ = l.startWatch()
		}
	})

	return l.loadErr
}

// Machine 返回当前状态机
func (l *Loader) Machine() (*Machine, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.loadErr != nil {
		return nil, l.loadErr
	}
	if l.machine == nil {
		return nil, errors.New("machine not built, call Load first")
	}
	return l.machine, nil
}

// Reload 手动重新加载定义文件,成功后替换状态机并触发回调
// 新状态机从全新的活动集开始,旧状态机的运行进度不迁移
func (l *Loader) Reload() error {
	l.mu.RLock()
	currentPath := l.definitionPath
	l.mu.RUnlock()

	if currentPath == "" {
		return errors.New("definition path not initialized")
	}
	if err := validateDefinitionPath(currentPath); err != nil {
		return fmt.Errorf("invalid definition path: %w", err)
	}

	newMachine, err := l.compile()
	if err != nil {
		return fmt.Errorf("compile definition failed: %w", err)
	}

	l.mu.Lock()
	oldMachine := l.machine
	l.machine = newMachine
	l.loadErr = nil

	// 复制回调列表(避免死锁)
	callbacks := make([]func(old, new *Machine), len(l.callbacks))
	copy(callbacks, l.callbacks)
	l.mu.Unlock()

	// 在锁外触发回调
	for _, callback := range callbacks {
		callback(oldMachine, newMachine)
	}

	return nil
}

// OnReload 注册状态机重建回调
func (l *Loader) OnReload(callback func(old, new *Machine)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callbacks = append(l.callbacks, callback)
}

// Close 关闭加载器(停止监听)
func (l *Loader) Close() {
	l.stopWatch()
	close(l.watchQuit)
}

/* ------------------------------ 内部方法 ------------------------------ */

// compile 读取定义文件并编译为状态机
func (l *Loader) compile() (*Machine, error) {
	data, err := os.ReadFile(l.definitionPath)
	if err != nil {
		return nil, fmt.Errorf("read file failed: %w", err)
	}

	var def Definition
	if err := l.serializer.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshal failed (%s): %w", l.serializer.GetName(), err)
	}

	return Build(&def, l.registry, l.defaultPriority)
}

// chooseSerializer 选择序列化器
func (l *Loader) chooseSerializer(path string) error {
	// 强制格式优先级最高
	if l.forceFormat != nil {
		l.serializer = l.forceFormat
		return nil
	}

	ext := filepath.Ext(path)
	for _, format := range l.supportedFormats {
		if format.GetFileExt() == ext {
			l.serializer = format
			return nil
		}
	}
	// .yaml 与 .yml 等价
	if ext == ".yaml" {
		l.serializer = &YAMLSerializer{}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// startWatch 启动定义文件监听
func (l *Loader) startWatch() error {
	var err error
	l.watchOnce.Do(func() {
		if l.watcher, err = fsnotify.NewWatcher(); err != nil {
			err = fmt.Errorf("create watcher failed: %w", err)
			return
		}

		if err = l.watcher.Add(l.definitionPath); err != nil {
			err = fmt.Errorf("add watch path failed: %w", err)
			return
		}

		go l.watchLoop()
	})
	return err
}

// stopWatch 停止定义文件监听
func (l *Loader) stopWatch() {
	l.watchOnce = sync.Once{}
	if l.watcher != nil {
		l.watcher.Close()
		l.watcher = nil
	}
}

// watchLoop 监听文件变化循环
func (l *Loader) watchLoop() {
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	for {
		select {
		case event, ok := <-func() <-chan fsnotify.Event {
			l.mu.RLock()
			defer l.mu.RUnlock()
			if l.watcher == nil {
				ch := make(chan fsnotify.Event)
				close(ch)
				return ch
			}
			return l.watcher.Events
		}():
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounceTimer.Reset(l.watchDebounceInterval)
			}

		case <-debounceTimer.C:
			if err := l.Reload(); err != nil {
				logger.Warnf("chartfile auto reload failed: %v", err)
			} else {
				logger.Infof("chartfile auto reloaded from: %s", l.definitionPath)
			}

		case err, ok := <-func() <-chan error {
			l.mu.RLock()
			defer l.mu.RUnlock()
			if l.watcher == nil {
				ch := make(chan error)
				close(ch)
				return ch
			}
			return l.watcher.Errors
		}():
			if !ok {
				return
			}
			logger.Warnf("chartfile watch error: %v", err)

		case <-l.watchQuit:
			return
		}
	}
}

// validateDefinitionPath 校验定义文件路径
func validateDefinitionPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
