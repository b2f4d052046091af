package xflag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 开关文件格式。
type Format string

const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"
	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// 默认的键路径分隔符
const defaultDelim = "."

// =============================================================================
// Flags 接口
// =============================================================================

// Flags 定义特性开关的读取接口。
//
// Get* 方法在键不存在时返回 def，绝不返回错误。所有方法并发安全。
type Flags interface {
	// GetBool 读取布尔开关。
	GetBool(key string, def bool) bool

	// GetInt 读取整数开关。
	GetInt(key string, def int) int

	// GetString 读取字符串开关。
	GetString(key string, def string) string

	// Client 返回底层的 koanf 实例，用于执行本接口未覆盖的读取操作。
	Client() *koanf.Koanf

	// Reload 重新读取开关文件并整体替换快照。
	// 从字节数据创建的实例返回 ErrNotReloadable。
	Reload() error
}

// flagSet 是 Flags 接口的 koanf 实现。
type flagSet struct {
	path   string
	format Format

	// mu 保护快照替换；读取方持读锁，Reload 持写锁
	mu sync.RWMutex
	k  *koanf.Koanf
}

// =============================================================================
// 工厂函数
// =============================================================================

// New 从文件路径创建开关实例。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
func New(path string) (Flags, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	f := &flagSet{path: path, format: format}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFromBytes 从字节数据创建开关实例。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。空数据创建空实例，
// 所有读取返回默认值。
func NewFromBytes(data []byte, format Format) (Flags, error) {
	k, err := loadData(data, format)
	if err != nil {
		return nil, err
	}
	return &flagSet{format: format, k: k}, nil
}

// =============================================================================
// Flags 实现
// =============================================================================

func (f *flagSet) GetBool(key string, def bool) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.k.Exists(key) {
		return def
	}
	return f.k.Bool(key)
}

func (f *flagSet) GetInt(key string, def int) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.k.Exists(key) {
		return def
	}
	return f.k.Int(key)
}

func (f *flagSet) GetString(key string, def string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.k.Exists(key) {
		return def
	}
	return f.k.String(key)
}

func (f *flagSet) Client() *koanf.Koanf {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.k
}

// Reload 重新读取开关文件并整体替换快照。
// 读取或解析失败时保留旧快照，读取方不受影响。
func (f *flagSet) Reload() error {
	if f.path == "" {
		return ErrNotReloadable
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	newK, err := loadData(data, f.format)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.k = newK
	f.mu.Unlock()
	return nil
}

// =============================================================================
// 内部辅助函数
// =============================================================================

// detectFormat 根据文件扩展名检测格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

// loadData 解析数据到新的 koanf 实例。
func loadData(data []byte, format Format) (*koanf.Koanf, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, ErrUnsupportedFormat
	}

	k := koanf.New(defaultDelim)
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}
	return k, nil
}

// 确保实现接口
var _ Flags = (*flagSet)(nil)
