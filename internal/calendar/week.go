package calendar

import (
	"strconv"
	"time"
)

// WeekdayOf 将 Go 的 time.Weekday (0=Sunday) 转为 1=Monday … 7=Sunday
func WeekdayOf(t time.Time) int {
	wd := t.Weekday()
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// ISOWeek ISO-8601 周次（1-53）
//
// 先移到本周周四，再以“周四所在年份”的 1 月 1 日为基准计算；
// 跨年周（如 2024-12-31 属于 2025 年第 1 周）依赖这一点。
func ISOWeek(d Date) int {
	thursday := d.AddDays(4 - d.Weekday())
	jan1 := New(thursday.Year(), time.January, 1)
	// ceil((days+1)/7) 在 days>=0 时等价于 days/7+1
	return jan1.DaysUntil(thursday)/7 + 1
}

// InInterval 闭区间判断 start <= d <= end
// 零填充的 ISO 字符串可直接按字典序比较
func InInterval(d, start, end Date) bool {
	s := d.String()
	return s >= start.String() && s <= end.String()
}

// NextMonday 下一个周一；today 本身是周一时返回下周一
func NextMonday(today Date) Date {
	offset := (1 + 7 - int(today.t.Weekday())) % 7
	if offset == 0 {
		offset = 7
	}
	return today.AddDays(offset)
}

// SchoolYear 学年标签 "YYYY/YYYY+1"，8 月起算新学年
func SchoolYear(today Date) string {
	start := today.Year()
	if today.Month() < time.August {
		start--
	}
	return strconv.Itoa(start) + "/" + strconv.Itoa(start+1)
}
