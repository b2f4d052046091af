package xtiming

import (
	"runtime"
	"strings"
)

// unknownCaller 所有帧都被忽略时的哨兵值。
const unknownCaller = "?"

// frameworkIgnorePrefixes 默认忽略的包路径前缀：本包自身与 runtime。
var frameworkIgnorePrefixes = []string{
	"github.com/omeyang/xtrack/pkg/observability/xtiming",
	"runtime",
}

// maxCallerDepth 栈走查的最大帧数。
// 跨度不在超热路径上，O(栈深) 可接受；性能敏感调用点请用 WithCallerName 跳过走查。
const maxCallerDepth = 64

// discoverCaller 沿调用栈向外查找第一个不属于被忽略前缀的帧，
// 返回其包路径与函数名。走到栈根仍未找到时返回 "?" 哨兵，不报错。
func discoverCaller(additionalIgnores []string) (moduleName, functionName string) {
	pcs := make([]uintptr, maxCallerDepth)
	// skip=2: Callers 自身 + discoverCaller
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return unknownCaller, unknownCaller
	}

	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			mod, fn := splitFrameFunction(frame.Function)
			if !ignoredModule(mod, additionalIgnores) {
				return mod, fn
			}
		}
		if !more {
			break
		}
	}
	return unknownCaller, unknownCaller
}

// splitFrameFunction 把 runtime 帧的完整函数名拆成包路径和函数名。
// 例如 "github.com/acme/payin/repo.(*PayerRepo).GetPayer" →
// ("github.com/acme/payin/repo", "(*PayerRepo).GetPayer")。
func splitFrameFunction(fullName string) (moduleName, functionName string) {
	slash := strings.LastIndexByte(fullName, '/')
	dot := strings.IndexByte(fullName[slash+1:], '.')
	if dot < 0 {
		return fullName, fullName
	}
	dot += slash + 1
	return fullName[:dot], fullName[dot+1:]
}

func ignoredModule(moduleName string, additionalIgnores []string) bool {
	for _, prefix := range frameworkIgnorePrefixes {
		if matchesPrefix(moduleName, prefix) {
			return true
		}
	}
	for _, prefix := range additionalIgnores {
		if prefix != "" && matchesPrefix(moduleName, prefix) {
			return true
		}
	}
	return false
}

// matchesPrefix 按路径段匹配包前缀。
// "a/b" 匹配 "a/b" 和 "a/b/c"，但不匹配 "a/bc"，
// 避免兄弟包（如外部测试包）被误忽略。
func matchesPrefix(moduleName, prefix string) bool {
	return moduleName == prefix || strings.HasPrefix(moduleName, prefix+"/")
}
