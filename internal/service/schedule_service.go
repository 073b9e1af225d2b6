package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/reconcile"
	"gorm.io/gorm"
)

// ErrScheduleNotFound 在指定计划不存在时返回
var ErrScheduleNotFound = errors.New("medication schedule not found")

// ScheduleService 负责用药定时计划的增删改查。
// 创建与更新都经过 reconcile.NewSchedule 校验，
// 不合法的计划（例如 weekly 缺少星期）在入库前即被拒绝，
// 永远不会进入展开逻辑。
type ScheduleService struct {
	db *gorm.DB
}

// ScheduleInput 定义创建/更新计划时可配置字段
type ScheduleInput struct {
	MedicationID   uint
	PatientID      uint
	TimeOfDay      string
	RecurrenceRule string
	DayOfWeek      string
	Timezone       string
	Notes          string
}

// NewScheduleService 构造 ScheduleService
func NewScheduleService(gdb *gorm.DB) *ScheduleService {
	return &ScheduleService{db: gdb}
}

// ListByPatient 返回指定患者的全部计划
func (s *ScheduleService) ListByPatient(patientID uint) ([]db.MedicationSchedule, error) {
	var schedules []db.MedicationSchedule

	query := s.db.Model(&db.MedicationSchedule{})
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}

	if err := query.Order("time_of_day ASC, id ASC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// Get 根据 ID 获取计划
func (s *ScheduleService) Get(id uint) (*db.MedicationSchedule, error) {
	var schedule db.MedicationSchedule
	if err := s.db.First(&schedule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return &schedule, nil
}

// Create 新建计划，入库前完成全部校验
func (s *ScheduleService) Create(input ScheduleInput) (*db.MedicationSchedule, error) {
	validated, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	var medication db.Medication
	if err := s.db.First(&medication, input.MedicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("find medication: %w", err)
	}
	if medication.PatientID != input.PatientID {
		return nil, fmt.Errorf("%w: medication belongs to another patient", reconcile.ErrInvalidSchedule)
	}

	schedule := db.MedicationSchedule{
		MedicationID:   input.MedicationID,
		PatientID:      input.PatientID,
		TimeOfDay:      validated.TimeOfDay,
		RecurrenceRule: string(validated.Rule),
		DayOfWeek:      normalizeDayOfWeek(input),
		Timezone:       strings.TrimSpace(input.Timezone),
		Notes:          strings.TrimSpace(input.Notes),
	}

	if err := s.db.Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return &schedule, nil
}

// Update 更新计划
func (s *ScheduleService) Update(id uint, input ScheduleInput) (*db.MedicationSchedule, error) {
	validated, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	var existing db.MedicationSchedule
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}

	existing.TimeOfDay = validated.TimeOfDay
	existing.RecurrenceRule = string(validated.Rule)
	existing.DayOfWeek = normalizeDayOfWeek(input)
	existing.Timezone = strings.TrimSpace(input.Timezone)
	existing.Notes = strings.TrimSpace(input.Notes)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return &existing, nil
}

// Delete 删除计划
func (s *ScheduleService) Delete(id uint) error {
	if err := s.db.Delete(&db.MedicationSchedule{}, id).Error; err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// EngineSchedules 把指定患者的计划行转换为引擎计划。
// 历史脏数据转换失败时跳过并留日志，不影响整次对账。
func (s *ScheduleService) EngineSchedules(ctx context.Context, patientID uint) ([]reconcile.Schedule, error) {
	var rows []db.MedicationSchedule
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}

	schedules := make([]reconcile.Schedule, 0, len(rows))
	for _, row := range rows {
		sch, err := reconcile.NewSchedule(row.ID, row.MedicationID, row.PatientID, row.TimeOfDay, row.RecurrenceRule, row.DayOfWeek, row.Timezone)
		if err != nil {
			log.Printf("schedule %d failed validation, excluded from reconciliation: %v", row.ID, err)
			continue
		}
		sch.Notes = row.Notes
		schedules = append(schedules, sch)
	}

	return schedules, nil
}

func (s *ScheduleService) validate(input ScheduleInput) (reconcile.Schedule, error) {
	return reconcile.NewSchedule(0, input.MedicationID, input.PatientID, input.TimeOfDay, input.RecurrenceRule, input.DayOfWeek, input.Timezone)
}

func normalizeDayOfWeek(input ScheduleInput) string {
	if strings.TrimSpace(strings.ToLower(input.RecurrenceRule)) != string(reconcile.RuleWeekly) {
		return ""
	}
	return strings.TrimSpace(strings.ToLower(input.DayOfWeek))
}
