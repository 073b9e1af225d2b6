package db

import "gorm.io/gorm"

// Medication 定义了患者用药模型
// Frequency/TimeOfDay 为展示用标签（例如 "Twice daily" / "08:00"）；
// 结构化的定时规则由 MedicationSchedule 承载
type Medication struct {
	gorm.Model
	PatientID uint    `gorm:"index;not null"`
	Patient   Patient `gorm:"constraint:OnDelete:CASCADE"`
	Name      string  `gorm:"not null"`
	Dosage    string
	Frequency string
	TimeOfDay string
	Active    bool `gorm:"default:true"`
}
