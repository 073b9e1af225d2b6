package reconcile

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const defaultFetchTimeout = 10 * time.Second

// FetchSchedulesFunc 拉取指定患者的全部用药计划
type FetchSchedulesFunc func(ctx context.Context, patientID uint) ([]Schedule, error)

// FetchRecordsFunc 拉取指定患者的全部打卡记录
type FetchRecordsFunc func(ctx context.Context, patientID uint) ([]Record, error)

// Engine 是对账引擎的对外入口。
// 数据来源通过函数注入，引擎自身无任何全局状态；
// 相同输入下 Reconcile 的结果完全一致。
type Engine struct {
	fetchSchedules FetchSchedulesFunc
	fetchRecords   FetchRecordsFunc
	matcher        Matcher
	fetchTimeout   time.Duration
	now            func() time.Time
}

// Option 配置 Engine 的可选行为
type Option func(*Engine)

// WithMatchTolerance 限制配对允许的最大时间距离，0 表示不限制
func WithMatchTolerance(d time.Duration) Option {
	return func(e *Engine) {
		e.matcher.Tolerance = d
	}
}

// WithFetchTimeout 覆盖上游拉取的超时时间
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithClock 注入当前时间来源，测试用
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine 构造对账引擎
func NewEngine(fetchSchedules FetchSchedulesFunc, fetchRecords FetchRecordsFunc, opts ...Option) *Engine {
	e := &Engine{
		fetchSchedules: fetchSchedules,
		fetchRecords:   fetchRecords,
		fetchTimeout:   defaultFetchTimeout,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Result 汇总一次对账的全部输出
type Result struct {
	DailyStats []DailyStat
	Doses      []ReconciledDose
}

// Reconcile 对指定患者在 [from, to] 区间内执行一次完整对账。
// 计划与记录并发拉取，两者无先后依赖；任一失败即返回 ErrDataUnavailable，
// 不重试也不返回部分结果。调用方取消 ctx 时拉取随之中止。
func (e *Engine) Reconcile(ctx context.Context, patientID uint, from, to time.Time) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	var (
		schedules []Schedule
		records   []Record
		schedErr  error
		recErr    error
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		schedules, schedErr = e.fetchSchedules(ctx, patientID)
	}()
	go func() {
		defer wg.Done()
		records, recErr = e.fetchRecords(ctx, patientID)
	}()
	wg.Wait()

	if schedErr != nil {
		return nil, fmt.Errorf("%w: fetch schedules: %v", ErrDataUnavailable, schedErr)
	}
	if recErr != nil {
		return nil, fmt.Errorf("%w: fetch adherence records: %v", ErrDataUnavailable, recErr)
	}

	usable := sanitizeRecords(records, patientID)
	stats, doses := Aggregate(schedules, usable, from, to, e.matcher, e.now())

	return &Result{DailyStats: stats, Doses: doses}, nil
}

// sanitizeRecords 过滤不属于目标患者的记录，并剔除缺失 scheduledTime 的
// 脏数据；剔除行为会留日志，方便运维排查，但不会中断整次对账
func sanitizeRecords(records []Record, patientID uint) []Record {
	usable := make([]Record, 0, len(records))
	for _, record := range records {
		if record.PatientID != patientID {
			continue
		}
		if record.ScheduledTime.IsZero() {
			log.Printf("reconcile: skipping adherence record %d with missing scheduled time", record.ID)
			continue
		}
		usable = append(usable, record)
	}
	return usable
}
