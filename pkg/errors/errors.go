package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLockNotAcquired 分布式锁被占用：同一月份正在被其他请求处理
var ErrLockNotAcquired = errors.New("该月份正在处理中，请稍后重试")
