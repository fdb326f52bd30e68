package scheduler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockTime 一天内的时刻，精度到分钟（0-1439）
type ClockTime int

// NewClock 由时分构造
func NewClock(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: 无效时刻 %02d:%02d", ErrInvalidInput, hour, minute)
	}
	return ClockTime(hour*60 + minute), nil
}

// ParseClock 解析 "HH:MM"（也接受 "H:MM"）
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: 无效时刻 %q", ErrInvalidInput, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: 无效时刻 %q", ErrInvalidInput, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: 无效时刻 %q", ErrInvalidInput, s)
	}
	return NewClock(h, m)
}

// Add 加分钟，跨越午夜时回绕
func (c ClockTime) Add(minutes int) ClockTime {
	v := (int(c) + minutes%minutesPerDay) % minutesPerDay
	if v < 0 {
		v += minutesPerDay
	}
	return ClockTime(v)
}

// String "HH:MM"
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalJSON 序列化为 "HH:MM"
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON 解析 "HH:MM"
func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("时刻必须为字符串: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// PhaseRange 单个教学阶段的 [Start, End) 时间段
type PhaseRange struct {
	Start    ClockTime `json:"start"`
	End      ClockTime `json:"end"`
	Duration int       `json:"duration"`
}

// String "08:00 - 08:15"
func (p PhaseRange) String() string {
	return p.Start.String() + " - " + p.End.String()
}

// ComputeTimeline 从开始时刻依次累加各阶段时长
func ComputeTimeline(start ClockTime, durations []int) ([]PhaseRange, error) {
	ranges := make([]PhaseRange, 0, len(durations))
	current := start
	for i, d := range durations {
		if d < 0 {
			return nil, fmt.Errorf("%w: 第 %d 个阶段时长为负数", ErrInvalidInput, i+1)
		}
		end := current.Add(d)
		ranges = append(ranges, PhaseRange{Start: current, End: end, Duration: d})
		current = end
	}
	return ranges, nil
}

// TotalMinutes 总时长
func TotalMinutes(durations []int) int {
	total := 0
	for _, d := range durations {
		total += d
	}
	return total
}
