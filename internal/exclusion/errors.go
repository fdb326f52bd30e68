package exclusion

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch 上游假期数据不可达或返回非 2xx
	ErrFetch = errors.New("假期数据获取失败")
	// ErrInvalidRegion 地区为空或不在支持列表中
	ErrInvalidRegion = errors.New("无效的地区")
	// ErrInvalidRange 查询区间无效
	ErrInvalidRange = errors.New("无效的日期区间")
)

// FetchError 上游请求失败的详情；errors.Is(err, ErrFetch) 为 true
type FetchError struct {
	Region     string
	StatusCode int // 0 表示未拿到 HTTP 响应
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: region=%s HTTP %d", ErrFetch.Error(), e.Region, e.StatusCode)
	}
	return fmt.Sprintf("%s: region=%s: %v", ErrFetch.Error(), e.Region, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }
