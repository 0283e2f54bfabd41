package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/linkup-app/backend/internal/mailer"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/repositories"
	"github.com/linkup-app/backend/internal/security"
	"github.com/linkup-app/backend/pkg/apperrors"
	"github.com/linkup-app/backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 2 * time.Hour

// AuthService handles registration, email confirmation, sign-in and the
// password flows. Password hashing is bcrypt; session identity is an HS256
// JWT carrying the user id and email.
type AuthService struct {
	users         repositories.UserRepository
	mail          mailer.Mailer
	jwtSecret     string
	tokenTTLHours int
	baseURL       string
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, mail mailer.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		users:         users,
		mail:          mail,
		jwtSecret:     cfg.JWTSecret,
		tokenTTLHours: cfg.TokenTTLHours,
		baseURL:       cfg.BaseURL,
	}
}

// Register creates an unconfirmed account and emails the confirmation code.
func (s *AuthService) Register(req models.RegisterRequest) (*models.User, error) {
	if _, err := s.users.GetUserByEmail(req.Email); err == nil {
		return nil, apperrors.New(apperrors.CodeConflict, "a user with this email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to hash password")
	}

	code, err := security.GenerateToken(16)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to generate confirmation code")
	}

	user := &models.User{
		FullName:     req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		ConfirmToken: code,
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeConflict, "a user with this email is already registered")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to create user")
	}

	if err := s.mail.Send(user.Email, "Confirm your email",
		fmt.Sprintf("Email confirmation code: %s", code)); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStoreError, "failed to send confirmation email")
	}

	return user, nil
}

// ConfirmEmail confirms an account with the emailed code. The code is
// one-shot; it is cleared on success.
func (s *AuthService) ConfirmEmail(email, code string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeInvalidInput, "invalid email confirmation request")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}
	if user.EmailConfirmed {
		return nil
	}
	if code == "" || user.ConfirmToken == "" || user.ConfirmToken != code {
		return apperrors.New(apperrors.CodeInvalidInput, "invalid email confirmation request")
	}

	user.EmailConfirmed = true
	user.ConfirmToken = ""
	if err := s.users.UpdateUser(user); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to confirm email")
	}
	return nil
}

// SignIn checks the credentials and issues a JWT. An unconfirmed email is
// rejected even with a correct password.
func (s *AuthService) SignIn(email, password string) (string, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
		}
		return "", apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
	}

	if !user.EmailConfirmed {
		return "", apperrors.New(apperrors.CodeForbidden, "you need to confirm your email before logging in")
	}

	return s.GenerateJWT(user)
}

// RequestPasswordReset emails a reset link when the account exists. The
// response is identical whether or not the email is registered, so the
// endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}

	token, err := security.GenerateToken(16)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to generate reset token")
	}

	expires := time.Now().UTC().Add(resetTokenTTL)
	user.ResetToken = token
	user.ResetTokenExpiresAt = &expires
	if err := s.users.UpdateUser(user); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to store reset token")
	}

	link := fmt.Sprintf("%s/reset-password?email=%s&token=%s", s.baseURL, user.Email, token)
	if err := s.mail.Send(user.Email, "Reset Your Password",
		fmt.Sprintf("Click the link below to reset your password:\n%s", link)); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to send reset email")
	}
	return nil
}

// ResetPassword sets a new password given a valid, unexpired reset token.
func (s *AuthService) ResetPassword(email, token, newPassword string) error {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeInvalidInput, "invalid password reset request")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}

	if token == "" || user.ResetToken == "" || user.ResetToken != token {
		return apperrors.New(apperrors.CodeInvalidInput, "invalid password reset request")
	}
	if user.ResetTokenExpiresAt == nil || time.Now().UTC().After(*user.ResetTokenExpiresAt) {
		return apperrors.New(apperrors.CodeInvalidInput, "invalid password reset request")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to hash password")
	}

	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpiresAt = nil
	if err := s.users.UpdateUser(user); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to reset password")
	}
	return nil
}

// ChangePassword sets a new password for an authenticated user after
// verifying the old one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.New(apperrors.CodeForbidden, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := s.users.UpdateUser(user); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStoreError, "failed to change password")
	}
	return nil
}

// GenerateJWT issues an HS256 token with the user's id and email claims.
func (s *AuthService) GenerateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.tokenTTLHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeStoreError, "failed to sign token")
	}
	return signed, nil
}
