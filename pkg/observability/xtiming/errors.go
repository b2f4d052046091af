package xtiming

import "errors"

var (
	// ErrNilOperation 表示传入的被测操作为空。
	ErrNilOperation = errors.New("xtiming: nil operation")

	// ErrNilTransaction 表示传入的事务实体为空。
	ErrNilTransaction = errors.New("xtiming: nil transaction")
)
