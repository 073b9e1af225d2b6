package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carelog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrPatientNotFound 在指定患者不存在时返回
	ErrPatientNotFound = errors.New("patient not found")
	// ErrPatientNameRequired 在患者姓名缺失时返回
	ErrPatientNameRequired = errors.New("patient name is required")
)

// PatientService 负责患者档案的增删改查
type PatientService struct {
	db *gorm.DB
}

// PatientInput 定义创建/更新患者时可配置字段
type PatientInput struct {
	Name             string
	Age              int
	Allergies        string
	EmergencyContact string
	Doctor           string
}

// NewPatientService 构造 PatientService
func NewPatientService(gdb *gorm.DB) *PatientService {
	return &PatientService{db: gdb}
}

// List 返回全部患者，按创建时间倒序
func (s *PatientService) List() ([]db.Patient, error) {
	var patients []db.Patient
	if err := s.db.Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// Get 根据 ID 获取患者
func (s *PatientService) Get(id uint) (*db.Patient, error) {
	var patient db.Patient
	if err := s.db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &patient, nil
}

// Create 新建患者档案
func (s *PatientService) Create(input PatientInput) (*db.Patient, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPatientNameRequired
	}

	patient := db.Patient{
		Name:             strings.TrimSpace(input.Name),
		Age:              input.Age,
		Allergies:        strings.TrimSpace(input.Allergies),
		EmergencyContact: strings.TrimSpace(input.EmergencyContact),
		Doctor:           strings.TrimSpace(input.Doctor),
	}

	if err := s.db.Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return &patient, nil
}

// Update 更新患者档案
func (s *PatientService) Update(id uint, input PatientInput) (*db.Patient, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrPatientNameRequired
	}

	var existing db.Patient
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Age = input.Age
	existing.Allergies = strings.TrimSpace(input.Allergies)
	existing.EmergencyContact = strings.TrimSpace(input.EmergencyContact)
	existing.Doctor = strings.TrimSpace(input.Doctor)

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return &existing, nil
}
