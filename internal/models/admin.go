package models

import "time"

// Admin 管理员表
type Admin struct {
	ID           uint      `gorm:"primarykey" json:"id"`                 // 主键
	Username     string    `gorm:"uniqueIndex;not null" json:"username"` // 用户名
	PasswordHash string    `gorm:"type:varchar(200);not null" json:"-"`  // 密码哈希
	CreatedAt    time.Time `json:"created_at"`                           // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                           // 更新时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
