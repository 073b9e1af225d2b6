package db

import (
	"time"

	"gorm.io/gorm"
)

// AdherenceRecord 记录一次用药打卡
// Status 仅使用 taken/skipped；TakenTime 在 skipped 时为空
// 记录创建后不可修改，历史数据只增不改
type AdherenceRecord struct {
	gorm.Model
	MedicationID  uint      `gorm:"index;not null"`
	UserID        uint      `gorm:"index"`
	PatientID     uint      `gorm:"index;not null"`
	ScheduledTime time.Time `gorm:"not null"`
	TakenTime     *time.Time
	Status        string `gorm:"not null"`
	Notes         string
}
