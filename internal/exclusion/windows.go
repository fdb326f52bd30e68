package exclusion

import (
	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// Windows 某地区在一段时间内的假期与节假日
type Windows struct {
	Vacations []model.ExclusionInterval `json:"vacations"`
	Holidays  []model.ExclusionInterval `json:"holidays"`
}

// FromPeriods 按 is_school_vacation / is_public_holiday 拆分；日期无法解析的记录被丢弃
func FromPeriods(periods []model.Period) Windows {
	w := Windows{
		Vacations: []model.ExclusionInterval{},
		Holidays:  []model.ExclusionInterval{},
	}
	for _, p := range periods {
		intervals, ok := p.Intervals()
		if !ok {
			continue
		}
		for _, iv := range intervals {
			switch iv.Kind {
			case model.KindVacation:
				w.Vacations = append(w.Vacations, iv)
			case model.KindPublicHoliday:
				w.Holidays = append(w.Holidays, iv)
			}
		}
	}
	return w
}

// IsVacation d 是否处于假期
func (w Windows) IsVacation(d calendar.Date) bool { return anyContains(w.Vacations, d) }

// IsHoliday d 是否为法定节假日
func (w Windows) IsHoliday(d calendar.Date) bool { return anyContains(w.Holidays, d) }

// Predicate 生成排课用的排除判断：两个开关各自控制一类区间，结果取或
func (w Windows) Predicate(excludeVacations, excludeHolidays bool) func(calendar.Date) bool {
	return func(d calendar.Date) bool {
		if excludeVacations && w.IsVacation(d) {
			return true
		}
		return excludeHolidays && w.IsHoliday(d)
	}
}

func anyContains(list []model.ExclusionInterval, d calendar.Date) bool {
	for _, iv := range list {
		if iv.Contains(d) {
			return true
		}
	}
	return false
}
