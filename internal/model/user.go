package model

import "time"

type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	FullName       string    `gorm:"column:full_name;size:255;not null"`
	Sex            *string   `gorm:"column:sex;size:8"`
	Email          string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:hashed_password;size:255;not null"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	LoginAttempts  int       `gorm:"column:login_attempts;not null;default:0"`
	Coins          int64     `gorm:"column:coins;not null;default:0"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
