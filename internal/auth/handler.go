package auth

import (
	"errors"
	"strings"

	"rfid-backoffice/internal/config"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=255"`
}

type UserResponse struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Place *string `json:"place"`
	Role  string  `json:"role,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Place: u.DefPlace, Role: u.Role}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Richiesta non valida")
		}
		body.Username = strings.TrimSpace(body.Username)
		if err := validation.Struct(body); err != nil {
			return validation.BadRequest("Username e password obbligatori", err)
		}

		var user models.User
		err := db.WithContext(c.UserContext()).Where("usr_name = ?", body.Username).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenziali non valide")
		}
		if err != nil {
			config.LogError(config.GetLogger(), "auth", "LoginHandler", "kullanıcı okunamadı", body.Username, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore interno del server")
		}

		ok, needsRehash := CheckPassword(user.Password, body.Password)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenziali non valide")
		}

		if needsRehash {
			// Düz metin şifre: ilk başarılı girişte bcrypt'e çevir
			if hash, herr := HashPassword(body.Password); herr == nil {
				if uerr := db.Model(&user).Update("usr_pwd", hash).Error; uerr != nil {
					config.LogError(config.GetLogger(), "auth", "LoginHandler", "şifre hash'e çevrilemedi", user.ID, uerr)
				}
			}
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"token":   token,
			"user":    toUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)

		var user models.User
		err := db.WithContext(c.UserContext()).First(&user, "usr_id = ?", actor.UserID).Error
		if err == nil {
			return c.JSON(toUserResponse(&user))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			config.LogError(config.GetLogger(), "auth", "MeHandler", "kullanıcı okunamadı", actor.UserID, err)
		}

		// Fallback: veritabanından çekilemezse token bilgisini döndür
		role, _ := c.Locals(CtxUserRoleKey).(string)
		return c.JSON(UserResponse{ID: actor.UserID, Name: actor.UserName, Role: role})
	}
}
