package model

import "github.com/HansTydecks/fast-lessonplan/internal/calendar"

// ExclusionKind 排除区间类型
type ExclusionKind string

const (
	KindVacation      ExclusionKind = "vacation"
	KindPublicHoliday ExclusionKind = "public_holiday"
)

// ExclusionInterval 一段不上课的日期区间，首尾均包含
type ExclusionInterval struct {
	Label     string        `json:"label"`
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
	Kind      ExclusionKind `json:"kind"`
}

// Contains d 是否落在区间内
func (e ExclusionInterval) Contains(d calendar.Date) bool {
	return calendar.InInterval(d, e.StartDate, e.EndDate)
}

// Period 上游假期 API 返回的单条记录，同时也是缓存中保存的格式
type Period struct {
	Name             string `json:"name"`
	StartsOn         string `json:"starts_on"`
	EndsOn           string `json:"ends_on"`
	IsSchoolVacation bool   `json:"is_school_vacation"`
	IsPublicHoliday  bool   `json:"is_public_holiday"`
}

// Intervals 按标记拆分为区间；同时标记为假期和节假日的记录两边都会出现。
// 日期无法解析时返回 ok=false。
func (p Period) Intervals() (out []ExclusionInterval, ok bool) {
	start, err := calendar.Parse(p.StartsOn)
	if err != nil {
		return nil, false
	}
	end, err := calendar.Parse(p.EndsOn)
	if err != nil {
		return nil, false
	}
	if p.IsSchoolVacation {
		out = append(out, ExclusionInterval{Label: p.Name, StartDate: start, EndDate: end, Kind: KindVacation})
	}
	if p.IsPublicHoliday {
		out = append(out, ExclusionInterval{Label: p.Name, StartDate: start, EndDate: end, Kind: KindPublicHoliday})
	}
	return out, true
}
