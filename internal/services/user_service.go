package services

import (
	"strings"

	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput is the payload for creating a user account from the admin
// surface. Unlike Register it carries an explicit role.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserUpdate is the partial payload for editing a user account. A non-nil
// password is re-hashed before storage.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func normalizeRole(role string) string {
	if strings.TrimSpace(role) == "admin" {
		return "admin"
	}
	return "user"
}

// CreateUser creates a user account with an explicit role.
func CreateUser(db *gorm.DB, in UserInput) (*models.User, error) {
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

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     normalizeRole(in.Role),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	logging.Log.Info("user created", zap.String("email", email), zap.String("role", user.Role))
	return &user, nil
}

// UpdateUser applies a partial update to a user account. A supplied password
// replaces the stored hash.
func UpdateUser(db *gorm.DB, id string, in UserUpdate) (*models.User, error) {
	user, err := GetUser(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, types.Validation("נא להזין שם")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, types.Validation("נא להזין אימייל")
		}
		if email != user.Email {
			var count int64
			if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, types.Conflict("אימייל כבר רשום במערכת")
			}
		}
		updates["email"] = email
	}
	if in.Password != nil && *in.Password != "" {
		if len(*in.Password) < 6 {
			return nil, types.Validation("סיסמה חייבת להכיל לפחות 6 תווים")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = string(hash)
	}
	if in.Role != nil {
		updates["role"] = normalizeRole(*in.Role)
	}

	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return GetUser(db, id)
}

// DeleteUser removes a user account.
func DeleteUser(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("משתמש לא נמצא")
	}
	return nil
}
