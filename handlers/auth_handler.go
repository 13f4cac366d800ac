package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	config "github.com/srr-project/srr-backend/configs"
	"github.com/srr-project/srr-backend/directory"
	"github.com/srr-project/srr-backend/middleware"
	"github.com/srr-project/srr-backend/services"
)

type AuthHandler struct {
	directory directory.Service
	users     *services.UserService
	cfg       *config.Config
}

func NewAuthHandler(dir directory.Service, users *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{directory: dir, users: users, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates against the directory service, syncs the account into
// the local user table and returns a signed JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	account, ok := h.directory.Authenticate(req.Username, req.Password)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	user, err := h.users.SyncDirectoryAccount(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sync user"})
	}

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"roles":   []string(user.Roles),
		"exp":     time.Now().Add(h.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t, "user": user})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	user, err := h.users.Get(actor.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
