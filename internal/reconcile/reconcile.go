// Package reconcile 实现用药依从性对账引擎：
// 把周期性的用药计划展开为按日应服剂次，与护理人员录入的打卡记录配对，
// 并按日期汇总完成率等统计数据。
// 包内不依赖数据库与 HTTP，全部输入通过参数注入，结果可复算。
package reconcile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidSchedule 在计划定义不合法时返回，计划在构造期被拒绝，不会进入展开逻辑
	ErrInvalidSchedule = errors.New("invalid medication schedule")
	// ErrDataUnavailable 在上游数据获取失败时返回，对账中止且不产生部分结果
	ErrDataUnavailable = errors.New("adherence data unavailable")
)

// DateFormat 是引擎内统一使用的日历日期格式
const DateFormat = "2006-01-02"

// RecurrenceRule 描述计划的重复策略
type RecurrenceRule string

const (
	RuleDaily    RecurrenceRule = "daily"
	RuleWeekly   RecurrenceRule = "weekly"
	RuleAsNeeded RecurrenceRule = "as_needed"
)

// Status 描述打卡记录的结论
type Status string

const (
	StatusTaken   Status = "taken"
	StatusSkipped Status = "skipped"
)

// Outcome 描述应服剂次对账后的归类
type Outcome string

const (
	OutcomeTaken   Outcome = "taken"
	OutcomeMissed  Outcome = "missed"
	OutcomePending Outcome = "pending"
)

// Schedule 是引擎视角下的用药计划
// 只能通过 NewSchedule 构造，保证进入展开逻辑的计划均已通过校验
type Schedule struct {
	ID           uint
	MedicationID uint
	PatientID    uint
	TimeOfDay    string // HH:mm
	Rule         RecurrenceRule
	DayOfWeek    time.Weekday // 仅 weekly 有意义
	Location     *time.Location
	Notes        string

	hour   int
	minute int
}

// Record 是引擎视角下的打卡记录，创建后不可变
type Record struct {
	ID            uint
	MedicationID  uint
	UserID        uint
	PatientID     uint
	ScheduledTime time.Time
	TakenTime     *time.Time
	Status        Status
	Notes         string
}

// DueDose 表示某个计划在某个日历日期上的一次应服剂次
// Date 为计划时区下的日历日期，Expected 为对应的预期时刻
type DueDose struct {
	Schedule Schedule
	Date     string
	Expected time.Time
}

// ReconciledDose 是应服剂次与打卡记录配对后的结果
type ReconciledDose struct {
	Dose    DueDose
	Record  *Record
	Outcome Outcome
}

// DailyStat 汇总单个日期的依从性统计
// CompletionPct 为四舍五入后的整数百分比，无计划的日期报告 0
type DailyStat struct {
	Date           string
	ScheduledCount int
	TakenCount     int
	MissedCount    int
	CompletionPct  int
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NewSchedule 校验并构造计划。违反以下任一约束将返回 ErrInvalidSchedule：
// 重复策略不在 daily/weekly/as_needed 之内；weekly 缺少 dayOfWeek 或
// 非 weekly 携带 dayOfWeek；timeOfDay 不是合法的 HH:mm；时区无法解析。
// timezone 为空时回退到 UTC。
func NewSchedule(id, medicationID, patientID uint, timeOfDay, rule, dayOfWeek, timezone string) (Schedule, error) {
	normalizedRule := RecurrenceRule(strings.TrimSpace(strings.ToLower(rule)))
	switch normalizedRule {
	case RuleDaily, RuleWeekly, RuleAsNeeded:
	default:
		return Schedule{}, fmt.Errorf("%w: unsupported recurrence rule %q", ErrInvalidSchedule, rule)
	}

	trimmedDay := strings.TrimSpace(strings.ToLower(dayOfWeek))
	var weekday time.Weekday
	if normalizedRule == RuleWeekly {
		if trimmedDay == "" {
			return Schedule{}, fmt.Errorf("%w: weekly schedule requires day of week", ErrInvalidSchedule)
		}
		parsed, ok := weekdayNames[trimmedDay]
		if !ok {
			return Schedule{}, fmt.Errorf("%w: unknown day of week %q", ErrInvalidSchedule, dayOfWeek)
		}
		weekday = parsed
	} else if trimmedDay != "" {
		return Schedule{}, fmt.Errorf("%w: day of week only applies to weekly schedules", ErrInvalidSchedule)
	}

	hour, minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	loc := time.UTC
	if tz := strings.TrimSpace(timezone); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalidSchedule, timezone)
		}
	}

	return Schedule{
		ID:           id,
		MedicationID: medicationID,
		PatientID:    patientID,
		TimeOfDay:    fmt.Sprintf("%02d:%02d", hour, minute),
		Rule:         normalizedRule,
		DayOfWeek:    weekday,
		Location:     loc,
		hour:         hour,
		minute:       minute,
	}, nil
}

// parseTimeOfDay 接受 "08:00" 与 "8:00" 两种写法
func parseTimeOfDay(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time of day %q is not HH:mm", value)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time of day %q has invalid hour", value)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time of day %q has invalid minute", value)
	}

	return hour, minute, nil
}
