package auth

import "time"

const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
)

func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleManager
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:60;not null"`
	Role         string    `json:"role" gorm:"type:enum('customer','manager');not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
