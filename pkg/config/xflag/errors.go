package xflag

import "errors"

var (
	// ErrEmptyPath 表示传入的文件路径为空。
	ErrEmptyPath = errors.New("xflag: empty path")

	// ErrUnsupportedFormat 表示不支持的文件格式。
	ErrUnsupportedFormat = errors.New("xflag: unsupported format")

	// ErrLoadFailed 表示文件读取失败。
	ErrLoadFailed = errors.New("xflag: load failed")

	// ErrParseFailed 表示文件解析失败。
	ErrParseFailed = errors.New("xflag: parse failed")

	// ErrNotReloadable 表示该实例不支持重载。
	ErrNotReloadable = errors.New("xflag: not reloadable")
)
