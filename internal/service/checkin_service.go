package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carelog/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrCheckInNotFound 在指定签到不存在时返回
	ErrCheckInNotFound = errors.New("check-in not found")
	// ErrCheckInCategoryRequired 在签到类别缺失时返回
	ErrCheckInCategoryRequired = errors.New("check-in category is required")
)

// CheckInService 负责照护签到的写入与查询
type CheckInService struct {
	db *gorm.DB
}

// CheckInInput 定义创建签到时的输入对象
// Data 保存类别自定义字段，原样落库为 JSON
type CheckInInput struct {
	UserID    uint
	PatientID uint
	Category  string
	Data      map[string]any
	Timestamp time.Time
}

// CheckInFilter 描述签到查询条件
// Date 为 2006-01-02 格式，按当天 [00:00, 24:00) 过滤
type CheckInFilter struct {
	PatientID uint
	Category  string
	Date      string
}

// NewCheckInService 构造 CheckInService
func NewCheckInService(gdb *gorm.DB) *CheckInService {
	return &CheckInService{db: gdb}
}

// Create 写入一条签到
func (s *CheckInService) Create(input CheckInInput) (*db.CheckIn, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, ErrCheckInCategoryRequired
	}

	data := input.Data
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal check-in data: %w", err)
	}

	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	checkIn := db.CheckIn{
		UserID:    input.UserID,
		PatientID: input.PatientID,
		Category:  category,
		Data:      datatypes.JSON(payload),
		Timestamp: timestamp,
	}

	if err := s.db.Create(&checkIn).Error; err != nil {
		return nil, fmt.Errorf("create check-in: %w", err)
	}
	return &checkIn, nil
}

// List 返回符合条件的签到，按时间倒序
func (s *CheckInService) List(filter CheckInFilter) ([]db.CheckIn, error) {
	var checkIns []db.CheckIn

	query := s.db.Model(&db.CheckIn{})
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if date := strings.TrimSpace(filter.Date); date != "" {
		dayStart, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid date filter %q", date)
		}
		query = query.Where("timestamp >= ? AND timestamp < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	if err := query.Order("timestamp DESC").Find(&checkIns).Error; err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	return checkIns, nil
}

// Delete 删除指定签到
func (s *CheckInService) Delete(id uint) error {
	result := s.db.Delete(&db.CheckIn{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete check-in: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}
