package xtiming

// QueryStatus 数据库查询的请求状态归类。
type QueryStatus string

const (
	// QueryStatusSuccess 查询成功。
	QueryStatusSuccess QueryStatus = "success"
	// QueryStatusTimeout 查询因超时/取消类错误失败。
	QueryStatusTimeout QueryStatus = "timeout"
	// QueryStatusError 查询因其他错误失败。
	QueryStatusError QueryStatus = "error"
)

// TransactionStatus 事务阶段的显式结果。
// 不同于异常归类，这是成功路径上由调用方指定的阶段结果。
type TransactionStatus string

const (
	// TransactionCommit 事务提交。
	TransactionCommit TransactionStatus = "commit"
	// TransactionRollback 事务回滚。
	TransactionRollback TransactionStatus = "rollback"
	// TransactionError 事务异常终止。
	TransactionError TransactionStatus = "error"
)

// QueryType 查询类型标签。
type QueryType string

const (
	// QueryTypeUnknown 未知类型。
	QueryTypeUnknown QueryType = ""
	// QueryTypeSelect 查询。
	QueryTypeSelect QueryType = "select"
	// QueryTypeInsert 插入。
	QueryTypeInsert QueryType = "insert"
	// QueryTypeUpdate 更新。
	QueryTypeUpdate QueryType = "update"
	// QueryTypeDelete 删除。
	QueryTypeDelete QueryType = "delete"
	// QueryTypeTransaction 事务。
	QueryTypeTransaction QueryType = "transaction"
)
