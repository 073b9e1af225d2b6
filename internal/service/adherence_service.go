package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/reconcile"
	"gorm.io/gorm"
)

var (
	// ErrAdherenceInvalidStatus 在打卡状态不在 taken/skipped 之内时返回
	ErrAdherenceInvalidStatus = errors.New("adherence status must be taken or skipped")
	// ErrAdherenceTimeRequired 在打卡缺少预定时刻时返回
	ErrAdherenceTimeRequired = errors.New("adherence scheduled time is required")
)

// AdherenceService 负责用药打卡记录的写入与查询。
// 记录创建后不可修改，没有更新入口。
type AdherenceService struct {
	db *gorm.DB
}

// AdherenceInput 定义创建打卡记录时的输入对象
type AdherenceInput struct {
	MedicationID  uint
	UserID        uint
	PatientID     uint
	ScheduledTime time.Time
	TakenTime     *time.Time
	Status        string
	Notes         string
}

// NewAdherenceService 构造 AdherenceService
func NewAdherenceService(gdb *gorm.DB) *AdherenceService {
	return &AdherenceService{db: gdb}
}

// Create 写入一条打卡记录
func (s *AdherenceService) Create(input AdherenceInput) (*db.AdherenceRecord, error) {
	status := strings.TrimSpace(strings.ToLower(input.Status))
	if status != string(reconcile.StatusTaken) && status != string(reconcile.StatusSkipped) {
		return nil, ErrAdherenceInvalidStatus
	}
	if input.ScheduledTime.IsZero() {
		return nil, ErrAdherenceTimeRequired
	}
	if input.MedicationID == 0 {
		return nil, ErrMedicationNotFound
	}

	record := db.AdherenceRecord{
		MedicationID:  input.MedicationID,
		UserID:        input.UserID,
		PatientID:     input.PatientID,
		ScheduledTime: input.ScheduledTime,
		TakenTime:     input.TakenTime,
		Status:        status,
		Notes:         strings.TrimSpace(input.Notes),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create adherence record: %w", err)
	}
	return &record, nil
}

// ListByPatient 返回指定患者的打卡记录，按预定时刻倒序
func (s *AdherenceService) ListByPatient(patientID uint) ([]db.AdherenceRecord, error) {
	var records []db.AdherenceRecord

	query := s.db.Model(&db.AdherenceRecord{})
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}

	if err := query.Order("scheduled_time DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list adherence records: %w", err)
	}
	return records, nil
}

// EngineRecords 把指定患者的打卡行转换为引擎记录。
// 缺失预定时刻的脏数据跳过并留日志。
func (s *AdherenceService) EngineRecords(ctx context.Context, patientID uint) ([]reconcile.Record, error) {
	var rows []db.AdherenceRecord
	if err := s.db.WithContext(ctx).Where("patient_id = ?", patientID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load adherence records: %w", err)
	}

	records := make([]reconcile.Record, 0, len(rows))
	for _, row := range rows {
		if row.ScheduledTime.IsZero() {
			log.Printf("adherence record %d has no scheduled time, excluded from reconciliation", row.ID)
			continue
		}
		records = append(records, reconcile.Record{
			ID:            row.ID,
			MedicationID:  row.MedicationID,
			UserID:        row.UserID,
			PatientID:     row.PatientID,
			ScheduledTime: row.ScheduledTime,
			TakenTime:     row.TakenTime,
			Status:        reconcile.Status(row.Status),
			Notes:         row.Notes,
		})
	}

	return records, nil
}
