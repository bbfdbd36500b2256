package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/middleware"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/types"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login and password reset routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.Cfg.SessionHours) * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// Register handles POST /api/auth/register
// @Summary Register a user account
// @Description Create a user account and start a session; the first account becomes an admin
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	user, err := services.Register(h.DB, in)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := services.MintSession(h.Cfg, user)
	if err != nil {
		return serviceError(c, err)
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and start a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	user, err := services.Login(h.DB, in)
	if err != nil {
		return serviceError(c, err)
	}

	token, err := services.MintSession(h.Cfg, user)
	if err != nil {
		return serviceError(c, err)
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusOK).JSON(user)
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.OKResponseStruct
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.Cfg.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return utils.OKResponse(c)
}

// Me handles GET /api/auth/me
// @Summary Get the current user
// @Description Return the account behind the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return utils.ErrorResponse(c, "נדרשת התחברות", fiber.StatusUnauthorized)
	}

	user, err := services.GetUser(h.DB, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// ForgotPassword handles POST /api/auth/forgot-password
// @Summary Request a password reset
// @Description Send a reset link by mail; the response is the same whether or not the email is registered
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "Email address"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	// Checked before touching the database so the answer does not depend on
	// whether the email is registered.
	if !h.Cfg.MailConfigured() {
		return serviceError(c, types.External("שירות הדואר אינו זמין כעת"))
	}

	token, user, err := services.CreateResetToken(h.DB, body.Email)
	if err != nil {
		return serviceError(c, err)
	}

	if token != nil && user != nil {
		// Mail delivery is best-effort; the token stays valid either way and
		// the caller gets the same acknowledgment.
		if err := services.SendPasswordResetMail(h.Cfg, user.Name, user.Email, token.Token); err != nil {
			logging.Log.Error("reset mail delivery failed",
				zap.String("email", user.Email),
				zap.Error(err))
		}
	}

	return utils.OKResponse(c)
}

// ResetPassword handles POST /api/auth/reset-password
// @Summary Reset a password
// @Description Consume a reset token and set a new password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body object true "Token and new password"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	if err := services.ResetPassword(h.DB, body.Token, body.Password); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description Get all user accounts for assignee and manager pickers
// @Tags Auth
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// CreateUser handles POST /api/users
// @Summary Create a user account
// @Description Add a user account with an explicit role (admin only)
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.UserInput true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	user, err := services.CreateUser(h.DB, in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUserByID handles GET /api/users/:id
// @Summary Get a user
// @Description Get one user account by id
// @Tags Auth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *AuthHandler) GetUserByID(c *fiber.Ctx) error {
	user, err := services.GetUser(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateUser handles PATCH /api/users/:id
// @Summary Update a user
// @Description Edit a user account; a supplied password is re-hashed (admin only)
// @Tags Auth
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param body body services.UserUpdate true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users/{id} [patch]
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	var in services.UserUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	user, err := services.UpdateUser(h.DB, c.Params("id"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete a user
// @Description Remove a user account (admin only)
// @Tags Auth
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /users/{id} [delete]
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	if err := services.DeleteUser(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}
