package errors

import "errors"

// ErrCacheUnavailable 缓存后端不可用（调用方应按未命中处理）
var ErrCacheUnavailable = errors.New("缓存后端不可用")
