package main

import (
	"fmt"
	"log"
	"time"

	"github.com/carelog/internal/config"
	"github.com/carelog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// 演示数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	createDemoUsers()
	patient := createDemoPatient()
	medications := createDemoMedications(patient)
	createDemoSchedules(patient, medications)
	createDemoAdherence(patient, medications)
	createDemoCheckIns(patient)
	createDemoReminders(patient)

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: admin@example.com (密码: admin123)")
}

// 创建演示用户
func createDemoUsers() {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedAdmin, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	db.DB.Create(&db.User{Email: "admin@example.com", Name: "admin", Role: "admin", Password: string(hashedAdmin)})

	hashedAide, _ := bcrypt.GenerateFromPassword([]byte("aide123"), bcrypt.DefaultCost)
	db.DB.Create(&db.User{Email: "aide@example.com", Name: "aide", Role: "aide", Password: string(hashedAide)})

	fmt.Println("✅ 演示用户创建完成")
}

// 创建演示患者
func createDemoPatient() db.Patient {
	var existing db.Patient
	if err := db.DB.Where("name = ?", "王奶奶").First(&existing).Error; err == nil {
		fmt.Println("患者已存在，跳过创建")
		return existing
	}

	patient := db.Patient{
		Name:             "王奶奶",
		Age:              82,
		Allergies:        "青霉素",
		EmergencyContact: "王先生 13800000000",
		Doctor:           "李医生",
	}
	if err := db.DB.Create(&patient).Error; err != nil {
		log.Fatalf("创建患者失败: %v", err)
	}

	fmt.Println("✅ 演示患者创建完成")
	return patient
}

// 创建演示用药
func createDemoMedications(patient db.Patient) []db.Medication {
	var count int64
	db.DB.Model(&db.Medication{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count > 0 {
		fmt.Println("用药已存在，跳过创建")
		var medications []db.Medication
		db.DB.Where("patient_id = ?", patient.ID).Find(&medications)
		return medications
	}

	medications := []db.Medication{
		{PatientID: patient.ID, Name: "氨氯地平", Dosage: "5mg", Frequency: "每日一次", TimeOfDay: "08:00", Active: true},
		{PatientID: patient.ID, Name: "二甲双胍", Dosage: "500mg", Frequency: "每日两次", TimeOfDay: "08:00 / 20:00", Active: true},
		{PatientID: patient.ID, Name: "阿托伐他汀", Dosage: "20mg", Frequency: "每周一次", TimeOfDay: "21:00", Active: true},
	}
	for i := range medications {
		if err := db.DB.Create(&medications[i]).Error; err != nil {
			log.Printf("创建用药失败: %v", err)
		}
	}

	fmt.Println("✅ 演示用药创建完成")
	return medications
}

// 创建演示用药计划
func createDemoSchedules(patient db.Patient, medications []db.Medication) {
	var count int64
	db.DB.Model(&db.MedicationSchedule{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count > 0 || len(medications) < 3 {
		fmt.Println("用药计划已存在，跳过创建")
		return
	}

	schedules := []db.MedicationSchedule{
		{MedicationID: medications[0].ID, PatientID: patient.ID, TimeOfDay: "08:00", RecurrenceRule: "daily", Timezone: "Asia/Shanghai"},
		{MedicationID: medications[1].ID, PatientID: patient.ID, TimeOfDay: "08:00", RecurrenceRule: "daily", Timezone: "Asia/Shanghai"},
		{MedicationID: medications[1].ID, PatientID: patient.ID, TimeOfDay: "20:00", RecurrenceRule: "daily", Timezone: "Asia/Shanghai"},
		{MedicationID: medications[2].ID, PatientID: patient.ID, TimeOfDay: "21:00", RecurrenceRule: "weekly", DayOfWeek: "monday", Timezone: "Asia/Shanghai"},
	}
	for i := range schedules {
		if err := db.DB.Create(&schedules[i]).Error; err != nil {
			log.Printf("创建用药计划失败: %v", err)
		}
	}

	fmt.Println("✅ 演示用药计划创建完成")
}

// 创建最近一周的演示打卡记录
func createDemoAdherence(patient db.Patient, medications []db.Medication) {
	var count int64
	db.DB.Model(&db.AdherenceRecord{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count > 0 || len(medications) == 0 {
		fmt.Println("打卡记录已存在，跳过创建")
		return
	}

	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)
	for offset := 1; offset <= 7; offset++ {
		day := now.AddDate(0, 0, -offset)
		scheduled := time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, loc)

		// 隔天跳过一次，留出缺服数据
		if offset%3 == 0 {
			record := db.AdherenceRecord{
				MedicationID:  medications[0].ID,
				PatientID:     patient.ID,
				ScheduledTime: scheduled,
				Status:        "skipped",
				Notes:         "老人外出，未服药",
			}
			if err := db.DB.Create(&record).Error; err != nil {
				log.Printf("创建打卡记录失败: %v", err)
			}
			continue
		}

		taken := scheduled.Add(10 * time.Minute)
		record := db.AdherenceRecord{
			MedicationID:  medications[0].ID,
			PatientID:     patient.ID,
			ScheduledTime: scheduled,
			TakenTime:     &taken,
			Status:        "taken",
			Notes:         "按时服药",
		}
		if err := db.DB.Create(&record).Error; err != nil {
			log.Printf("创建打卡记录失败: %v", err)
		}
	}

	fmt.Println("✅ 演示打卡记录创建完成")
}

// 创建演示签到
func createDemoCheckIns(patient db.Patient) {
	var count int64
	db.DB.Model(&db.CheckIn{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count > 0 {
		fmt.Println("签到已存在，跳过创建")
		return
	}

	checkIns := []struct {
		category string
		data     string
	}{
		{category: "Measurements", data: `{"blood_pressure":"135/85","heart_rate":72}`},
		{category: "Mood", data: `{"mood":"calm","note":"午后精神不错"}`},
		{category: "Symptoms", data: `{"symptom":"轻微头晕","severity":"mild"}`},
	}
	for i, item := range checkIns {
		checkIn := db.CheckIn{
			PatientID: patient.ID,
			Category:  item.category,
			Data:      datatypes.JSON(item.data),
			Timestamp: time.Now().Add(-time.Duration(i) * 6 * time.Hour),
		}
		if err := db.DB.Create(&checkIn).Error; err != nil {
			log.Printf("创建签到失败: %v", err)
		}
	}

	fmt.Println("✅ 演示签到创建完成")
}

// 创建演示提醒
func createDemoReminders(patient db.Patient) {
	var count int64
	db.DB.Model(&db.Reminder{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count > 0 {
		fmt.Println("提醒已存在，跳过创建")
		return
	}

	reminders := []db.Reminder{
		{PatientID: patient.ID, Title: "早餐后服药", TimeOfDay: "08:00", Repeat: "daily", Enabled: true},
		{PatientID: patient.ID, Title: "晚间测量血压", TimeOfDay: "20:30", Repeat: "daily", Enabled: true},
		{PatientID: patient.ID, Title: "周一复查备药", TimeOfDay: "09:00", Repeat: "weekly", Enabled: false},
	}
	for i := range reminders {
		if err := db.DB.Create(&reminders[i]).Error; err != nil {
			log.Printf("创建提醒失败: %v", err)
		}
	}

	fmt.Println("✅ 演示提醒创建完成")
}
