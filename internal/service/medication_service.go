package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carelog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrMedicationNotFound 在指定药品不存在时返回
	ErrMedicationNotFound = errors.New("medication not found")
	// ErrMedicationNameRequired 在药品名称缺失时返回
	ErrMedicationNameRequired = errors.New("medication name is required")
)

// MedicationService 负责患者用药条目的增删改查
type MedicationService struct {
	db *gorm.DB
}

// MedicationFilter 描述用药列表过滤条件
type MedicationFilter struct {
	PatientID  uint
	ActiveOnly bool
}

// MedicationInput 定义创建/更新用药时可配置字段
type MedicationInput struct {
	PatientID uint
	Name      string
	Dosage    string
	Frequency string
	TimeOfDay string
	Active    bool
}

// NewMedicationService 构造 MedicationService
func NewMedicationService(gdb *gorm.DB) *MedicationService {
	return &MedicationService{db: gdb}
}

// List 返回用药集合，支持按患者与启用状态筛选
func (s *MedicationService) List(filter MedicationFilter) ([]db.Medication, error) {
	var medications []db.Medication

	query := s.db.Model(&db.Medication{})
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Order("created_at ASC").Find(&medications).Error; err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return medications, nil
}

// Get 根据 ID 获取药品
func (s *MedicationService) Get(id uint) (*db.Medication, error) {
	var medication db.Medication
	if err := s.db.First(&medication, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return &medication, nil
}

// Create 新建用药条目
func (s *MedicationService) Create(input MedicationInput) (*db.Medication, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrMedicationNameRequired
	}
	if input.PatientID == 0 {
		return nil, ErrPatientNotFound
	}

	medication := db.Medication{
		PatientID: input.PatientID,
		Name:      strings.TrimSpace(input.Name),
		Dosage:    strings.TrimSpace(input.Dosage),
		Frequency: strings.TrimSpace(input.Frequency),
		TimeOfDay: strings.TrimSpace(input.TimeOfDay),
		Active:    input.Active,
	}

	if err := s.db.Create(&medication).Error; err != nil {
		return nil, fmt.Errorf("create medication: %w", err)
	}
	return &medication, nil
}

// Update 更新用药条目
func (s *MedicationService) Update(id uint, input MedicationInput) (*db.Medication, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrMedicationNameRequired
	}

	var existing db.Medication
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicationNotFound
		}
		return nil, fmt.Errorf("find medication: %w", err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Dosage = strings.TrimSpace(input.Dosage)
	existing.Frequency = strings.TrimSpace(input.Frequency)
	existing.TimeOfDay = strings.TrimSpace(input.TimeOfDay)
	existing.Active = input.Active

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update medication: %w", err)
	}
	return &existing, nil
}

// Delete 删除用药条目
func (s *MedicationService) Delete(id uint) error {
	if err := s.db.Delete(&db.Medication{}, id).Error; err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	return nil
}
