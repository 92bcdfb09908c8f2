package comparator

import (
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stratumlabs/stratum/pkg/domain"
)

func (r *Registry) registerDateFamily() {
	r.register(domain.OpDateEquals, dateCompare(func(a, b time.Time) bool { return a.Equal(b) }))
	r.register(domain.OpDateNotEquals, dateCompare(func(a, b time.Time) bool { return !a.Equal(b) }))
	r.register(domain.OpDateAfter, dateCompare(func(a, b time.Time) bool { return a.After(b) }))
	r.register(domain.OpDateAfterOrEqual, dateCompare(func(a, b time.Time) bool { return !a.Before(b) }))
	r.register(domain.OpDateBefore, dateCompare(func(a, b time.Time) bool { return a.Before(b) }))
	r.register(domain.OpDateBeforeOrEqual, dateCompare(func(a, b time.Time) bool { return !a.After(b) }))

	r.register(domain.OpDateBetween, func(_ *Env, value, operand any) (bool, error) {
		t, ok := asTime(value)
		if !ok {
			return false, nil
		}

		lo, hi, ok := asPair(operand)
		if !ok {
			return false, nil
		}

		from, okFrom := asTime(lo)
		to, okTo := asTime(hi)
		if !okFrom || !okTo {
			return false, nil
		}

		return !t.Before(from) && !t.After(to), nil
	})

	r.register(domain.OpTimeBetween, timeBetween)
	r.register(domain.OpDayOfWeek, dayOfWeek)
	r.register(domain.OpIsBusinessDay, isBusinessDay)
	r.register(domain.OpIsHoliday, isHoliday)
	r.register(domain.OpScheduleCron, scheduleCron)
}

func dateCompare(cmp func(a, b time.Time) bool) Func {
	return func(_ *Env, value, operand any) (bool, error) {
		a, okA := asTime(value)
		b, okB := asTime(operand)
		if !okA || !okB {
			return false, nil
		}
		return cmp(a, b), nil
	}
}

// timeBetween compares only the time of day. A window whose start is later
// than its end spans midnight: [22:00, 06:00] matches 23:30 and 05:00.
func timeBetween(_ *Env, value, operand any) (bool, error) {
	t, ok := asTime(value)
	if !ok {
		return false, nil
	}

	lo, hi, ok := asPair(operand)
	if !ok {
		return false, nil
	}

	from, okFrom := asClockSeconds(lo)
	to, okTo := asClockSeconds(hi)
	if !okFrom || !okTo {
		return false, nil
	}

	now := t.Hour()*3600 + t.Minute()*60 + t.Second()
	if from <= to {
		return now >= from && now <= to, nil
	}
	return now >= from || now <= to, nil
}

// asClockSeconds parses "HH:MM" or "HH:MM:SS" into seconds of day.
func asClockSeconds(v any) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}

	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	second := 0
	if len(parts) == 3 {
		second, err = strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return 0, false
		}
	}

	return hour*3600 + minute*60 + second, true
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// dayOfWeek matches when the value's weekday is in the operand set. Codes
// may be weekday names ("monday", "mon") or integers with Sunday as 0.
func dayOfWeek(_ *Env, value, operand any) (bool, error) {
	t, ok := asTime(value)
	if !ok {
		return false, nil
	}

	codes, ok := asSlice(operand)
	if !ok {
		return false, nil
	}

	for _, code := range codes {
		day, ok := asWeekday(code)
		if !ok {
			continue
		}
		if day == t.Weekday() {
			return true, nil
		}
	}
	return false, nil
}

func asWeekday(v any) (time.Weekday, bool) {
	if s, ok := v.(string); ok {
		day, found := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
		return day, found
	}
	if n, ok := asFloat64(v); ok && n >= 0 && n <= 6 && n == float64(int(n)) {
		return time.Weekday(int(n)), true
	}
	return time.Sunday, false
}

// isBusinessDay matches Monday through Friday that are not holidays. The
// optional operand selects the holiday region; without a holiday provider
// only the weekday test applies.
func isBusinessDay(env *Env, value, operand any) (bool, error) {
	t, ok := asTime(value)
	if !ok {
		return false, nil
	}

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false, nil
	}

	if env.Holidays == nil {
		return true, nil
	}

	holiday, err := env.Holidays.IsHoliday(t, regionOperand(operand))
	if err != nil {
		return false, nil
	}
	return !holiday, nil
}

// isHoliday delegates to the holiday provider. Without one the condition
// cannot be answered and fails.
func isHoliday(env *Env, value, operand any) (bool, error) {
	if env.Holidays == nil {
		return false, nil
	}

	t, ok := asTime(value)
	if !ok {
		return false, nil
	}

	holiday, err := env.Holidays.IsHoliday(t, regionOperand(operand))
	if err != nil {
		return false, nil
	}
	return holiday, nil
}

func regionOperand(operand any) string {
	if s, ok := operand.(string); ok {
		return s
	}
	return ""
}

// scheduleCron matches when the cron expression covers the value's minute.
func scheduleCron(_ *Env, value, operand any) (bool, error) {
	spec, ok := operand.(string)
	if !ok {
		return false, nil
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return false, nil
	}

	t, ok := asTime(value)
	if !ok {
		return false, nil
	}

	minute := t.Truncate(time.Minute)
	return schedule.Next(minute.Add(-time.Second)).Equal(minute), nil
}
