package models

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type User struct {
	Base
	Firstname           string `gorm:"index" json:"firstname"`
	Lastname            string `gorm:"index" json:"lastname"`
	ImageURL            string `json:"image_url,omitempty"`
	Email               string `gorm:"uniqueIndex" json:"email"`
	PhoneNumber         string `json:"phone_number,omitempty"`
	EmailVerified       bool   `gorm:"default:false" json:"email_verified"`
	PhoneNumberVerified bool   `gorm:"default:false" json:"phone_number_verified"`
	Password            string `gorm:"not null" json:"-"`
	Role                string `gorm:"default:USER" json:"role"`
	IsActive            bool   `gorm:"default:true" json:"is_active"`
	IsBanned            bool   `gorm:"default:false" json:"is_banned"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (u *User) VerifyPassword(plain string) bool {
	if u.Password == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
