package reconcile

import (
	"cmp"
	"math"
	"slices"
	"time"
)

// Aggregate 把计划与打卡记录合并为逐日统计。
// 输出按日期升序，每个日期恰好一条，即使当日没有任何计划（零填充），
// 这样下游图表的横轴保持连续。today 用于区分 missed 与 pending。
func Aggregate(schedules []Schedule, records []Record, from, to time.Time, matcher Matcher, today time.Time) ([]DailyStat, []ReconciledDose) {
	stats := make([]DailyStat, 0)
	doses := make([]ReconciledDose, 0)

	start := dateIn(from, time.UTC)
	end := dateIn(to, time.UTC)
	if start.After(end) {
		return stats, doses
	}

	// 先把所有计划展开一次，按日历日期分桶
	dosesByDate := make(map[string][]DueDose)
	for _, sch := range schedules {
		for dose := range Expand(sch, from, to) {
			dosesByDate[dose.Date] = append(dosesByDate[dose.Date], dose)
		}
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateFormat)
		due := dosesByDate[date]

		slices.SortFunc(due, func(a, b DueDose) int {
			if diff := cmp.Compare(a.Expected.Unix(), b.Expected.Unix()); diff != 0 {
				return diff
			}
			return cmp.Compare(a.Schedule.ID, b.Schedule.ID)
		})

		stat := DailyStat{Date: date, ScheduledCount: len(due)}

		for _, dose := range due {
			matched := matcher.Match(dose, records)
			outcome := classifyDose(dose, matched, today)
			if outcome == OutcomeTaken {
				stat.TakenCount++
			}
			doses = append(doses, ReconciledDose{Dose: dose, Record: matched, Outcome: outcome})
		}

		stat.MissedCount = stat.ScheduledCount - stat.TakenCount
		if stat.MissedCount < 0 {
			stat.MissedCount = 0
		}
		if stat.ScheduledCount > 0 {
			stat.CompletionPct = int(math.Round(100 * float64(stat.TakenCount) / float64(stat.ScheduledCount)))
		}

		stats = append(stats, stat)
	}

	return stats, doses
}

// classifyDose 归类单个剂次：配对到 taken 记录算完成，配对到 skipped
// 记录算错过；未配对时，日期已过（按计划时区）算错过，否则视为待办
func classifyDose(dose DueDose, matched *Record, today time.Time) Outcome {
	if matched != nil {
		if matched.Status == StatusTaken {
			return OutcomeTaken
		}
		return OutcomeMissed
	}

	localToday := today.In(dose.Schedule.Location).Format(DateFormat)
	if dose.Date < localToday {
		return OutcomeMissed
	}
	return OutcomePending
}
