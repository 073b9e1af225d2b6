package db

import "gorm.io/gorm"

// MedicationSchedule 定义了用药定时计划模型
// RecurrenceRule 支持 daily/weekly/as_needed；DayOfWeek 仅在 weekly 时有值
// Timezone 记录计划所属的 IANA 时区，日期归属一律以该时区为准
type MedicationSchedule struct {
	gorm.Model
	MedicationID   uint       `gorm:"index;not null"`
	Medication     Medication `gorm:"constraint:OnDelete:CASCADE"`
	PatientID      uint       `gorm:"index;not null"`
	TimeOfDay      string     `gorm:"not null"` // HH:mm
	RecurrenceRule string     `gorm:"not null"`
	DayOfWeek      string
	Timezone       string
	Notes          string
}
