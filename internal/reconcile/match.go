package reconcile

import "time"

// Matcher 负责为应服剂次挑选最接近的打卡记录。
// Tolerance 为 0 时接受任意距离的匹配；为正时超出该距离的候选被拒绝。
type Matcher struct {
	Tolerance time.Duration
}

// Match 在候选记录中选出与剂次预期时刻距离最小的一条。
// 候选先按 MedicationID 过滤，且预定时刻必须落在剂次所在的日历日期
// （按计划时区），一条记录不会跨日期满足多个剂次；
// 距离相同时取 ID 较小者，保证结果确定。无候选时返回 nil。
func (m Matcher) Match(dose DueDose, records []Record) *Record {
	loc := dose.Schedule.Location
	if loc == nil {
		loc = time.UTC
	}

	var best *Record
	var bestDiff time.Duration

	for i := range records {
		candidate := &records[i]
		if candidate.MedicationID != dose.Schedule.MedicationID {
			continue
		}
		if candidate.ScheduledTime.In(loc).Format(DateFormat) != dose.Date {
			continue
		}

		diff := absDuration(candidate.ScheduledTime.Sub(dose.Expected))
		if m.Tolerance > 0 && diff > m.Tolerance {
			continue
		}

		switch {
		case best == nil:
			best, bestDiff = candidate, diff
		case diff < bestDiff:
			best, bestDiff = candidate, diff
		case diff == bestDiff && candidate.ID < best.ID:
			best = candidate
		}
	}

	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
