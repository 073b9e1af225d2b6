package db

import "gorm.io/gorm"

// Reminder 定义了照护提醒模型
// 仅负责提醒配置的存取，推送投递由外部系统完成
type Reminder struct {
	gorm.Model
	PatientID uint   `gorm:"index;not null"`
	Title     string `gorm:"not null"`
	TimeOfDay string // HH:mm
	Repeat    string // daily/weekly 等展示用标签
	Enabled   bool   `gorm:"default:true"`
}
