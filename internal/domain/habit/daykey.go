package habit

import "time"

// DayKey identifies one local calendar day ("2006-01-02") in a reference
// timezone. Two instants map to the same key iff they fall on the same local
// calendar date in that timezone.
type DayKey string

const dayKeyLayout = "2006-01-02"

// DayKeyAt returns the calendar-day key of t as observed in loc.
func DayKeyAt(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		loc = time.Local
	}
	return DayKey(t.In(loc).Format(dayKeyLayout))
}

// Time returns the key's midnight as a UTC instant. Keys are already
// normalized to a calendar date, so arithmetic over these instants is immune
// to daylight-saving shifts in the originating timezone.
func (k DayKey) Time() (time.Time, error) {
	return time.Parse(dayKeyLayout, string(k))
}

// AddDays returns the key n calendar days away (n may be negative).
func (k DayKey) AddDays(n int) DayKey {
	t, err := k.Time()
	if err != nil {
		return k
	}
	return DayKey(t.AddDate(0, 0, n).Format(dayKeyLayout))
}

// DayDiff returns the signed number of whole calendar days between a and b
// (a minus b). Both operands are midnight-normalized before subtracting;
// dividing raw timestamp differences by 24h would misclassify boundary days
// around daylight-saving transitions.
func DayDiff(a, b DayKey) int {
	ta, errA := a.Time()
	tb, errB := b.Time()
	if errA != nil || errB != nil {
		return 0
	}
	return int(ta.Sub(tb) / (24 * time.Hour))
}
