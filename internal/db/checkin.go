package db

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CheckIn 记录一次照护签到
// Category 为闭集（Medications/Symptoms/Measurements/Mood 等），
// Data 保存各类别自定义字段的 JSON 负载
// UserID 为 0 表示未登录的匿名录入
type CheckIn struct {
	gorm.Model
	UserID    uint           `gorm:"index"`
	PatientID uint           `gorm:"index;not null"`
	Category  string         `gorm:"not null"`
	Data      datatypes.JSON `gorm:"not null"`
	Timestamp time.Time      `gorm:"index;not null"`
}
