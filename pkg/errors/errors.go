package errors

import "errors"

// ErrStorageUnavailable 持久化存储不可用
// Repository 层的数据库错误统一包装为该错误向上传播，
// 核心业务不在内部重试，由 Handler 层映射为 503。
var ErrStorageUnavailable = errors.New("存储服务不可用")
