// internal/models/team_member.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type TeamMember struct {
	BaseModel
	FirstName    string       `json:"first_name" gorm:"size:100;not null"`
	LastName     string       `json:"last_name" gorm:"size:100;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string       `json:"-" gorm:"size:255;not null"`
	Role         TeamRole     `json:"role" gorm:"type:varchar(20);default:'member'"`
	Status       MemberStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	PhotoURL     string       `json:"photo_url,omitempty" gorm:"size:512"`
	LastLoginAt  *time.Time   `json:"last_login_at"`
}

func (m *TeamMember) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = string(hashedPassword)
	return nil
}

func (m *TeamMember) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password))
}

func (m *TeamMember) FullName() string {
	return m.FirstName + " " + m.LastName
}
