package reconcile

import (
	"iter"
	"time"
)

// Expand 把计划在 [from, to]（含两端）内展开为应服剂次序列。
// 序列是惰性的、可重复消费的，剂次数量受日期区间约束。
// 日期归属一律按计划时区的日历日期判断：23:30 的计划无论调用方处于
// 哪个时区，都落在计划时区下的同一天。
// from 晚于 to 时产出空序列；as_needed 计划永远产出空序列。
func Expand(sch Schedule, from, to time.Time) iter.Seq[DueDose] {
	return func(yield func(DueDose) bool) {
		if sch.Rule == RuleAsNeeded {
			return
		}

		day := dateIn(from, sch.Location)
		last := dateIn(to, sch.Location)

		for !day.After(last) {
			if sch.Rule == RuleDaily || day.Weekday() == sch.DayOfWeek {
				dose := DueDose{
					Schedule: sch,
					Date:     day.Format(DateFormat),
					Expected: time.Date(day.Year(), day.Month(), day.Day(), sch.hour, sch.minute, 0, 0, sch.Location),
				}
				if !yield(dose) {
					return
				}
			}
			day = day.AddDate(0, 0, 1)
		}
	}
}

// dateIn 取时刻的年月日分量，在目标时区重建当日零点
func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
