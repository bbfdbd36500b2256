package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput is the payload for creating a user account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload for authenticating a user.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionClaims are the JWT claims carried by the session cookie.
type SessionClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a user account with a bcrypt-hashed password. The first
// registered user becomes an admin; everyone after that is a regular user.
func Register(db *gorm.DB, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, types.Validation("נא למלא שם, אימייל וסיסמה")
	}
	if len(in.Password) < 6 {
		return nil, types.Validation("סיסמה חייבת להכיל לפחות 6 תווים")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, types.Conflict("אימייל כבר רשום במערכת")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, err
	}
	role := "user"
	if total == 0 {
		role = "admin"
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	logging.Log.Info("user registered", zap.String("email", email), zap.String("role", role))
	return &user, nil
}

// Login verifies credentials and returns the matching user. The error is the
// same for an unknown email and a wrong password.
func Login(db *gorm.DB, in LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.Validation("אימייל או סיסמה שגויים")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, types.Validation("אימייל או סיסמה שגויים")
	}

	return &user, nil
}

// MintSession signs a session JWT for a user.
func MintSession(cfg *config.Config, user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.SessionHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// VerifySession parses and validates a session JWT.
func VerifySession(cfg *config.Config, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, types.Validation("הפעלה פגה, נא להתחבר מחדש")
	}
	return claims, nil
}

// CreateResetToken stores a single-use password reset token valid for 24
// hours. A request for an unknown email succeeds silently so the endpoint
// does not leak which addresses are registered.
func CreateResetToken(db *gorm.DB, email string) (*models.PasswordResetToken, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil, types.Validation("נא להזין אימייל")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, nil, err
	}

	token := models.PasswordResetToken{
		Email:     email,
		Token:     hex.EncodeToString(buf),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		// Issuing a fresh token invalidates every link mailed before it.
		if err := tx.Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&token).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &token, &user, nil
}

// ResetPassword consumes a reset token and sets a new password. The token is
// deleted on use; expired tokens are rejected and removed.
func ResetPassword(db *gorm.DB, tokenString, newPassword string) error {
	if len(newPassword) < 6 {
		return types.Validation("סיסמה חייבת להכיל לפחות 6 תווים")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var token models.PasswordResetToken
		err := tx.Where("token = ?", tokenString).First(&token).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.Validation("קישור איפוס לא תקין או שפג תוקפו")
			}
			return err
		}

		if time.Now().After(token.ExpiresAt) {
			tx.Delete(&token)
			return types.Validation("קישור איפוס לא תקין או שפג תוקפו")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		res := tx.Model(&models.User{}).Where("email = ?", token.Email).Update("password", string(hash))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.NotFound("משתמש לא נמצא")
		}

		return tx.Delete(&token).Error
	})
}

// GetUser returns one user by id.
func GetUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("משתמש לא נמצא")
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all user accounts, for assignee pickers.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
