package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了护理人员账号模型
// Role 仅使用 admin/aide，默认 aide；LastLogin 记录最近一次登录时间
type User struct {
	gorm.Model
	Email     string `gorm:"unique;not null"`
	Name      string `gorm:"not null"`
	Role      string `gorm:"default:aide"`
	Password  string `gorm:"not null"`
	LastLogin *time.Time
}

// EnsureUser 存在性检查：若提供的邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员用户。
func EnsureUser(email, password string) error {
	trimmedEmail := strings.TrimSpace(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		name := trimmedEmail
		if at := strings.Index(trimmedEmail, "@"); at > 0 {
			name = trimmedEmail[:at]
		}

		return DB.Create(&User{Email: trimmedEmail, Name: name, Role: "admin", Password: string(hashed)}).Error
	}

	return nil
}
