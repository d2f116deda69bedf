package catalog

import (
	"errors"

	"rfid-backoffice/internal/auth"
	"rfid-backoffice/internal/database"
	"rfid-backoffice/internal/models"
	"rfid-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserRequest struct {
	ID       uint    `json:"usr_id"`
	Name     string  `json:"usr_name" validate:"required,min=2,max=100"`
	Password string  `json:"usr_pwd" validate:"omitempty,min=4,max=72"`
	DefPlace *string `json:"usr_def_place" validate:"omitempty,max=50"`
	Role     string  `json:"usr_role" validate:"max=50"`
}

func (r *UserRequest) normalize() {
	r.Name = trim(r.Name)
	r.Role = trim(r.Role)
	r.DefPlace = database.RefString(r.DefPlace)
}

// GET /api/users  (usr_pwd hiçbir zaman dönmez)
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users := []models.User{}
		if err := db.WithContext(c.UserContext()).Order("usr_id ASC").Find(&users).Error; err != nil {
			logError("ListUsersHandler", "kullanıcılar listelenemedi", nil, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nel recupero utenti")
		}
		return c.JSON(users)
	}
}

// POST /api/users
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		body.normalize()
		if err := validation.Struct(body); err != nil {
			return validation.BadRequest("Dati utente non validi", err)
		}
		if body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Password richiesta")
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			logError("CreateUserHandler", "şifre hashlenemedi", body.Name, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione utente")
		}

		user := models.User{Name: body.Name, Password: hash, DefPlace: body.DefPlace, Role: body.Role}
		if err := db.WithContext(c.UserContext()).Create(&user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Nome utente già esistente")
			}
			if database.IsForeignKeyViolation(err) {
				return fiber.NewError(fiber.StatusBadRequest, "Place non valido")
			}
			logError("CreateUserHandler", "kullanıcı oluşturulamadı", body.Name, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella creazione utente")
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// PUT /api/users  body: {"usr_id": 3, ...}  boş usr_pwd mevcut şifreyi korur
func UpdateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dati non validi")
		}
		if body.ID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID utente mancante")
		}
		body.normalize()
		if err := validation.Struct(body); err != nil {
			return validation.BadRequest("Dati utente non validi", err)
		}

		values := map[string]any{
			"usr_name":      body.Name,
			"usr_def_place": body.DefPlace,
			"usr_role":      body.Role,
		}
		if body.Password != "" {
			hash, err := auth.HashPassword(body.Password)
			if err != nil {
				logError("UpdateUserHandler", "şifre hashlenemedi", body.ID, err)
				return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento utente")
			}
			values["usr_pwd"] = hash
		}

		var user models.User
		err := db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.User{}).Where("usr_id = ?", body.ID).Updates(values)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return tx.First(&user, body.ID).Error
		})
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Utente non trovato")
			case database.IsUniqueViolation(err):
				return fiber.NewError(fiber.StatusConflict, "Nome utente già esistente")
			case database.IsForeignKeyViolation(err):
				return fiber.NewError(fiber.StatusBadRequest, "Place non valido")
			}
			logError("UpdateUserHandler", "kullanıcı güncellenemedi", body.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nell'aggiornamento utente")
		}
		return c.JSON(user)
	}
}

// DELETE /api/users?id=3
func DeleteUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := database.RefUint(c.Query("id"))
		if err != nil || id == nil {
			return fiber.NewError(fiber.StatusBadRequest, "ID mancante")
		}

		res := db.WithContext(c.UserContext()).Delete(&models.User{}, *id)
		if res.Error != nil {
			logError("DeleteUserHandler", "kullanıcı silinemedi", *id, res.Error)
			return fiber.NewError(fiber.StatusInternalServerError, "Errore nella cancellazione utente")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Utente non trovato")
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
