package models

import "time"

// User represents a customer account.
type User struct {
	ID           string    `bson:"id" json:"userId"`
	FullName     string    `bson:"full_name" json:"fullName"`
	PhoneNumber  string    `bson:"phone_number" json:"phoneNumber"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"user_role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// UserRegistration is the signup payload.
type UserRegistration struct {
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
}
