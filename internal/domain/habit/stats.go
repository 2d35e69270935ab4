package habit

import (
	"math"
	"time"
)

// MaxStreakDays caps the backward walk of the streak calculation.
const MaxStreakDays = 365

// Statistics is the full set of dashboard figures derived from one habit
// snapshot.
type Statistics struct {
	TotalHabits    int
	CompletedToday int
	// Last7Days counts habits completed per day; index 0 is six days ago,
	// index 6 is today.
	Last7Days      [7]int
	CompletionRate int // percent, 0..100
	CurrentStreak  int
}

// ComputeStatistics derives all statistics fresh from the given snapshot.
// It is a pure function of its inputs; nothing is cached between calls.
func ComputeStatistics(habits []*Habit, now time.Time, loc *time.Location) Statistics {
	today := DayKeyAt(now, loc)

	var stats Statistics
	stats.TotalHabits = len(habits)

	totalCompletions := 0
	possibleCompletions := 0
	for _, h := range habits {
		if h.CompletedOn(today) {
			stats.CompletedToday++
		}
		for day, done := range h.Completions {
			if !done {
				continue
			}
			totalCompletions++
			diff := DayDiff(today, day)
			if diff >= 0 && diff < 7 {
				stats.Last7Days[6-diff]++
			}
		}
		// Days from creation through today, inclusive, floored at 1 so a
		// habit created today still counts as one possible completion.
		possible := DayDiff(today, DayKeyAt(h.CreatedAt, loc)) + 1
		if possible < 1 {
			possible = 1
		}
		possibleCompletions += possible
	}

	if possibleCompletions > 0 {
		stats.CompletionRate = int(math.Round(100 * float64(totalCompletions) / float64(possibleCompletions)))
	}
	stats.CurrentStreak = CurrentStreak(habits, today)
	return stats
}

// CurrentStreak walks backward from today counting days on which every habit
// in the set has a completion entry. The walk stops, without counting, at the
// first day any habit missed, and unconditionally once MaxStreakDays days
// have been counted. An empty habit set is vacuously "all complete" every
// day, so its streak saturates at the bound.
func CurrentStreak(habits []*Habit, today DayKey) int {
	streak := 0
	day := today
	for streak < MaxStreakDays {
		completedAll := true
		for _, h := range habits {
			if !h.CompletedOn(day) {
				completedAll = false
				break
			}
		}
		if !completedAll {
			break
		}
		streak++
		day = day.AddDays(-1)
	}
	return streak
}
