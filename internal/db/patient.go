package db

import "gorm.io/gorm"

// Patient 定义了患者档案模型
// Allergies/EmergencyContact/Doctor 为自由文本，由护理团队维护
type Patient struct {
	gorm.Model
	Name             string `gorm:"not null"`
	Age              int
	Allergies        string
	EmergencyContact string
	Doctor           string
}
