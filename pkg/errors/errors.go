package errors

import "errors"

var (
	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

	// ErrUpstream 外部依赖（院校目录、大模型）调用失败
	ErrUpstream = errors.New("外部服务暂不可用")
)
