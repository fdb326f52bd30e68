package service

import (
	"context"
	"fmt"

	"github.com/HansTydecks/fast-lessonplan/internal/calendar"
	"github.com/HansTydecks/fast-lessonplan/internal/exclusion"
	"github.com/HansTydecks/fast-lessonplan/internal/model"
)

// ── Mock ExclusionProvider ──

type mockExclusions struct {
	windows exclusion.Windows
	err     error
	regions []string

	calls     int
	lastStart calendar.Date
	lastEnd   calendar.Date
}

func newMockExclusions(intervals ...model.ExclusionInterval) *mockExclusions {
	m := &mockExclusions{
		windows: exclusion.Windows{
			Vacations: []model.ExclusionInterval{},
			Holidays:  []model.ExclusionInterval{},
		},
		regions: []string{"berlin", "brandenburg"},
	}
	for _, iv := range intervals {
		switch iv.Kind {
		case model.KindVacation:
			m.windows.Vacations = append(m.windows.Vacations, iv)
		case model.KindPublicHoliday:
			m.windows.Holidays = append(m.windows.Holidays, iv)
		}
	}
	return m
}

func (m *mockExclusions) Get(_ context.Context, region string, start, end calendar.Date) (exclusion.Windows, error) {
	m.calls++
	m.lastStart, m.lastEnd = start, end
	if err := m.ValidateRegion(region); err != nil {
		return exclusion.Windows{}, err
	}
	if m.err != nil {
		return exclusion.Windows{}, m.err
	}
	return m.windows, nil
}

func (m *mockExclusions) ValidateRegion(region string) error {
	for _, r := range m.regions {
		if r == region {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", exclusion.ErrInvalidRegion, region)
}

func (m *mockExclusions) Regions() []string { return m.regions }

// ── Mock ScheduleRecorder ──

type mockRecorder struct {
	outcomes []string
}

func (m *mockRecorder) ScheduleRun(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockRecorder) last() string {
	if len(m.outcomes) == 0 {
		return ""
	}
	return m.outcomes[len(m.outcomes)-1]
}

// ── 测试辅助 ──

func vacation(label, from, to string) model.ExclusionInterval {
	return model.ExclusionInterval{
		Label:     label,
		StartDate: calendar.MustParse(from),
		EndDate:   calendar.MustParse(to),
		Kind:      model.KindVacation,
	}
}

func holiday(label, day string) model.ExclusionInterval {
	d := calendar.MustParse(day)
	return model.ExclusionInterval{Label: label, StartDate: d, EndDate: d, Kind: model.KindPublicHoliday}
}
