package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carelog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrReminderNotFound 在指定提醒不存在时返回
	ErrReminderNotFound = errors.New("reminder not found")
	// ErrReminderTitleRequired 在提醒标题缺失时返回
	ErrReminderTitleRequired = errors.New("reminder title is required")
)

// ReminderService 负责照护提醒配置的增删改查。
// 只管配置存取，推送投递由外部系统负责。
type ReminderService struct {
	db *gorm.DB
}

// ReminderInput 定义创建/更新提醒时可配置字段
type ReminderInput struct {
	PatientID uint
	Title     string
	TimeOfDay string
	Repeat    string
	Enabled   bool
}

// NewReminderService 构造 ReminderService
func NewReminderService(gdb *gorm.DB) *ReminderService {
	return &ReminderService{db: gdb}
}

// List 返回提醒集合，支持按患者筛选
func (s *ReminderService) List(patientID uint) ([]db.Reminder, error) {
	var reminders []db.Reminder

	query := s.db.Model(&db.Reminder{})
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}

	if err := query.Order("time_of_day ASC, id ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// Create 新建提醒
func (s *ReminderService) Create(input ReminderInput) (*db.Reminder, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrReminderTitleRequired
	}

	reminder := db.Reminder{
		PatientID: input.PatientID,
		Title:     strings.TrimSpace(input.Title),
		TimeOfDay: strings.TrimSpace(input.TimeOfDay),
		Repeat:    strings.TrimSpace(input.Repeat),
		Enabled:   input.Enabled,
	}

	if err := s.db.Create(&reminder).Error; err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return &reminder, nil
}

// Update 更新提醒
func (s *ReminderService) Update(id uint, input ReminderInput) (*db.Reminder, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrReminderTitleRequired
	}

	var existing db.Reminder
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("find reminder: %w", err)
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.TimeOfDay = strings.TrimSpace(input.TimeOfDay)
	existing.Repeat = strings.TrimSpace(input.Repeat)
	existing.Enabled = input.Enabled

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	return &existing, nil
}

// Delete 删除提醒
func (s *ReminderService) Delete(id uint) error {
	if err := s.db.Delete(&db.Reminder{}, id).Error; err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}
