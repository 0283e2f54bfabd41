package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	FullName            string     `json:"full_name" gorm:"size:100"`
	Email               string     `json:"email" gorm:"size:190;uniqueIndex"` // also the login name
	PasswordHash        string     `json:"-"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty"`
	ProfileImagePath    string     `json:"profile_image_path"`
	EmailConfirmed      bool       `json:"email_confirmed" gorm:"default:false"`
	ConfirmToken        string     `json:"-" gorm:"size:64;index"`
	ResetToken          string     `json:"-" gorm:"size:64;index"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// PublicUser is the projection of a user exposed to other users.
type PublicUser struct {
	ID               uint   `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	ProfileImagePath string `json:"profile_image_path"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		FullName:         u.FullName,
		Email:            u.Email,
		ProfileImagePath: u.ProfileImagePath,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type ConfirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name             string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email            string     `json:"email,omitempty" validate:"omitempty,email"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	ProfileImagePath string     `json:"profile_image_path,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
