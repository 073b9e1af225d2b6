package service

import (
	"context"
	"errors"
	"testing"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/reconcile"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCareTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Patient{}, &db.Medication{}, &db.MedicationSchedule{}, &db.AdherenceRecord{}, &db.CheckIn{}, &db.Reminder{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedPatientWithMedication(t *testing.T) (db.Patient, db.Medication) {
	t.Helper()

	patient, err := NewPatientService(db.DB).Create(PatientInput{Name: "王奶奶", Age: 82})
	if err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}

	medication, err := NewMedicationService(db.DB).Create(MedicationInput{
		PatientID: patient.ID,
		Name:      "氨氯地平",
		Dosage:    "5mg",
		Frequency: "每日一次",
		TimeOfDay: "08:00",
		Active:    true,
	})
	if err != nil {
		t.Fatalf("failed to create medication: %v", err)
	}

	return *patient, *medication
}

func TestScheduleServiceCreateAndList(t *testing.T) {
	cleanup := setupCareTestDB(t)
	defer cleanup()

	patient, medication := seedPatientWithMedication(t)
	svc := NewScheduleService(db.DB)

	schedule, err := svc.Create(ScheduleInput{
		MedicationID:   medication.ID,
		PatientID:      patient.ID,
		TimeOfDay:      "8:00",
		RecurrenceRule: "daily",
		Timezone:       "Asia/Shanghai",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if schedule.TimeOfDay != "08:00" {
		t.Fatalf("expected normalized time of day, got %s", schedule.TimeOfDay)
	}

	schedules, err := svc.ListByPatient(patient.ID)
	if err != nil {
		t.Fatalf("ListByPatient returned error: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(schedules))
	}
}

func TestScheduleServiceRejectsInvalidDefinitions(t *testing.T) {
	cleanup := setupCareTestDB(t)
	defer cleanup()

	patient, medication := seedPatientWithMedication(t)
	svc := NewScheduleService(db.DB)

	// weekly 缺少星期
	if _, err := svc.Create(ScheduleInput{
		MedicationID:   medication.ID,
		PatientID:      patient.ID,
		TimeOfDay:      "08:00",
		RecurrenceRule: "weekly",
	}); !errors.Is(err, reconcile.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}

	// 未知重复策略
	if _, err := svc.Create(ScheduleInput{
		MedicationID:   medication.ID,
		PatientID:      patient.ID,
		TimeOfDay:      "08:00",
		RecurrenceRule: "hourly",
	}); !errors.Is(err, reconcile.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}

	// 药品归属其他患者
	other, err := NewPatientService(db.DB).Create(PatientInput{Name: "李爷爷"})
	if err != nil {
		t.Fatalf("failed to create second patient: %v", err)
	}
	if _, err := svc.Create(ScheduleInput{
		MedicationID:   medication.ID,
		PatientID:      other.ID,
		TimeOfDay:      "08:00",
		RecurrenceRule: "daily",
	}); !errors.Is(err, reconcile.ErrInvalidSchedule) {
		t.Fatalf("expected cross-patient schedule rejected, got %v", err)
	}
}

func TestScheduleServiceEngineSchedulesSkipsBadRows(t *testing.T) {
	cleanup := setupCareTestDB(t)
	defer cleanup()

	patient, medication := seedPatientWithMedication(t)
	svc := NewScheduleService(db.DB)

	if _, err := svc.Create(ScheduleInput{
		MedicationID:   medication.ID,
		PatientID:      patient.ID,
		TimeOfDay:      "08:00",
		RecurrenceRule: "daily",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 绕过校验写入一条脏数据，转换时应被跳过
	bad := db.MedicationSchedule{MedicationID: medication.ID, PatientID: patient.ID, TimeOfDay: "99:99", RecurrenceRule: "daily"}
	if err := db.DB.Create(&bad).Error; err != nil {
		t.Fatalf("failed to seed bad schedule: %v", err)
	}

	schedules, err := svc.EngineSchedules(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("EngineSchedules returned error: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("expected bad row skipped, got %d schedules", len(schedules))
	}
}
