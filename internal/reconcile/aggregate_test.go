package reconcile

import (
	"testing"
	"time"
)

func TestAggregateDailyScenario(t *testing.T) {
	sch := mustSchedule(t, "08:00", "daily", "", "")
	taken := time.Date(2024, 1, 2, 8, 5, 0, 0, time.UTC)
	records := []Record{
		{ID: 1, MedicationID: 10, PatientID: 100, ScheduledTime: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), TakenTime: &taken, Status: StatusTaken},
	}

	today := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	stats, doses := Aggregate([]Schedule{sch}, records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-03"), Matcher{}, today)

	if len(stats) != 3 {
		t.Fatalf("expected 3 daily stats, got %d", len(stats))
	}

	want := []DailyStat{
		{Date: "2024-01-01", ScheduledCount: 1, TakenCount: 0, MissedCount: 1, CompletionPct: 0},
		{Date: "2024-01-02", ScheduledCount: 1, TakenCount: 1, MissedCount: 0, CompletionPct: 100},
		{Date: "2024-01-03", ScheduledCount: 1, TakenCount: 0, MissedCount: 1, CompletionPct: 0},
	}
	for i, stat := range stats {
		if stat != want[i] {
			t.Fatalf("stat %d: expected %+v, got %+v", i, want[i], stat)
		}
	}

	if len(doses) != 3 {
		t.Fatalf("expected 3 reconciled doses, got %d", len(doses))
	}
	if doses[1].Outcome != OutcomeTaken || doses[1].Record == nil {
		t.Fatalf("expected second dose taken, got %+v", doses[1])
	}
	if doses[0].Outcome != OutcomeMissed || doses[2].Outcome != OutcomeMissed {
		t.Fatalf("expected unmatched past doses to be missed, got %s and %s", doses[0].Outcome, doses[2].Outcome)
	}
}

func TestAggregateZeroFillsEmptyDates(t *testing.T) {
	sch := mustSchedule(t, "09:00", "weekly", "monday", "")

	today := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	stats, _ := Aggregate([]Schedule{sch}, nil, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-08"), Matcher{}, today)

	if len(stats) != 8 {
		t.Fatalf("expected one stat per date, got %d", len(stats))
	}

	scheduled := 0
	for _, stat := range stats {
		if stat.CompletionPct < 0 || stat.CompletionPct > 100 {
			t.Fatalf("completion pct out of range: %d", stat.CompletionPct)
		}
		if stat.ScheduledCount == 0 && stat.CompletionPct != 0 {
			t.Fatalf("empty date %s should report 0%%, got %d", stat.Date, stat.CompletionPct)
		}
		scheduled += stat.ScheduledCount
	}

	// 区间内两个周一
	if scheduled != 2 {
		t.Fatalf("expected 2 scheduled doses across range, got %d", scheduled)
	}
	if stats[0].ScheduledCount != 1 || stats[7].ScheduledCount != 1 {
		t.Fatalf("expected doses on both mondays, got %+v", stats)
	}
}

func TestAggregateSkippedRecordCountsAsMissed(t *testing.T) {
	sch := mustSchedule(t, "08:00", "daily", "", "")
	records := []Record{
		{ID: 1, MedicationID: 10, PatientID: 100, ScheduledTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Status: StatusSkipped},
	}

	today := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	stats, doses := Aggregate([]Schedule{sch}, records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-01"), Matcher{}, today)

	if stats[0].TakenCount != 0 || stats[0].MissedCount != 1 {
		t.Fatalf("expected skipped dose to count as missed, got %+v", stats[0])
	}
	if doses[0].Outcome != OutcomeMissed || doses[0].Record == nil {
		t.Fatalf("expected missed outcome with attached record, got %+v", doses[0])
	}
}

func TestAggregatePendingForFutureDates(t *testing.T) {
	sch := mustSchedule(t, "08:00", "daily", "", "")

	today := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	_, doses := Aggregate([]Schedule{sch}, nil, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-03"), Matcher{}, today)

	if doses[0].Outcome != OutcomeMissed {
		t.Fatalf("expected yesterday to be missed, got %s", doses[0].Outcome)
	}
	if doses[1].Outcome != OutcomePending {
		t.Fatalf("expected today to be pending, got %s", doses[1].Outcome)
	}
	if doses[2].Outcome != OutcomePending {
		t.Fatalf("expected tomorrow to be pending, got %s", doses[2].Outcome)
	}
}

func TestAggregateInvertedRangeEmpty(t *testing.T) {
	sch := mustSchedule(t, "08:00", "daily", "", "")

	today := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	stats, doses := Aggregate([]Schedule{sch}, nil, mustDate(t, "2024-01-05"), mustDate(t, "2024-01-01"), Matcher{}, today)

	if len(stats) != 0 || len(doses) != 0 {
		t.Fatalf("expected empty aggregate for inverted range, got %d stats %d doses", len(stats), len(doses))
	}
}

func TestAggregateRoundsHalfUp(t *testing.T) {
	// 三个计划中完成一个：33.33% → 33；完成两个：66.67% → 67
	schedules := make([]Schedule, 0, 3)
	for i := uint(1); i <= 3; i++ {
		sch, err := NewSchedule(i, i, 100, "08:00", "daily", "", "")
		if err != nil {
			t.Fatalf("NewSchedule returned error: %v", err)
		}
		schedules = append(schedules, sch)
	}

	records := []Record{
		{ID: 1, MedicationID: 1, PatientID: 100, ScheduledTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Status: StatusTaken},
		{ID: 2, MedicationID: 2, PatientID: 100, ScheduledTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Status: StatusTaken},
	}

	today := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	stats, _ := Aggregate(schedules, records[:1], mustDate(t, "2024-01-01"), mustDate(t, "2024-01-01"), Matcher{}, today)
	if stats[0].CompletionPct != 33 {
		t.Fatalf("expected 33%%, got %d", stats[0].CompletionPct)
	}

	stats, _ = Aggregate(schedules, records, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-01"), Matcher{}, today)
	if stats[0].CompletionPct != 67 {
		t.Fatalf("expected 67%%, got %d", stats[0].CompletionPct)
	}
}
