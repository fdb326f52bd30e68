package scheduler

import "errors"

var (
	// ErrLastItem 列表至少保留一项
	ErrLastItem = errors.New("至少需要保留一项")
	// ErrIndexOutOfRange 下标越界
	ErrIndexOutOfRange = errors.New("下标越界")
)

// Direction 移动方向
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// Affordance 列表项可执行的操作，只由列表长度与位置决定
type Affordance struct {
	Index       int  `json:"index"`
	CanRemove   bool `json:"can_remove"`
	CanMoveUp   bool `json:"can_move_up"`
	CanMoveDown bool `json:"can_move_down"`
}

// Affordances 计算长度为 n 的列表中每一项的可用操作
func Affordances(n int) []Affordance {
	if n <= 0 {
		return []Affordance{}
	}
	out := make([]Affordance, n)
	for i := range out {
		out[i] = Affordance{
			Index:       i,
			CanRemove:   n > 1,
			CanMoveUp:   i > 0,
			CanMoveDown: i < n-1,
		}
	}
	return out
}

// Move 交换第 i 项与相邻项，返回新切片；首项上移或末项下移时原样返回
func Move[T any](items []T, i int, dir Direction) ([]T, error) {
	if i < 0 || i >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	out := append([]T(nil), items...)
	j := i + int(dir)
	if j < 0 || j >= len(out) {
		return out, nil
	}
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// Remove 删除第 i 项，返回新切片
func Remove[T any](items []T, i int) ([]T, error) {
	if i < 0 || i >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	if len(items) <= 1 {
		return nil, ErrLastItem
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), nil
}
