package auth

import (
	"errors"
	"fmt"

	"courier-backend/constants"
	"courier-backend/logger"
	"courier-backend/middleware"
	"courier-backend/services/token"
	userService "courier-backend/services/user"
	"courier-backend/types"
	authTypes "courier-backend/types/auth"
	"courier-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	users          *userService.Service
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(users *userService.Service, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{users: users, loggerInstance: asyncLogger}
}

// Register creates a regular account and issues its first session token.
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing register request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		logger.Error("Register validation failed", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}

	userID, err := h.users.Create(userService.CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Address:  req.Address,
		City:     req.City,
	})
	if err != nil {
		if errors.Is(err, userService.ErrDuplicateEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Message: "Email already registered",
			})
		}
		logger.Error("Failed to create user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	signed, err := token.Generate(userID, "user")
	if err != nil {
		logger.Error("Failed to sign session token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success(fmt.Sprintf("User registered successfully: %s", req.Email))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Registration successful",
		Status:  fiber.StatusCreated,
		Token:   signed,
		Data: authTypes.AuthUser{
			ID:    userID,
			Name:  req.Name,
			Email: req.Email,
			Role:  "user",
		},
	})
}

// Login checks credentials and, when the request names a role, that the
// account actually holds it.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing login request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}
	if req.Role != "" && !constants.ValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: fmt.Sprintf("Unknown role: %s", req.Role),
		})
	}

	account, err := h.users.FindByEmail(req.Email)
	if err != nil {
		logger.Error("Failed to look up user by email", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}
	if account == nil || !utils.CheckPassword(req.Password, account.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid credentials",
		})
	}

	if req.Role != "" && account.Role != req.Role {
		return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
			Message: fmt.Sprintf("Access denied. You are not a %s", req.Role),
		})
	}

	signed, err := token.Generate(account.ID, account.Role)
	if err != nil {
		logger.Error("Failed to sign session token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success(fmt.Sprintf("User logged in successfully: %s", account.Email))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   signed,
		Data: authTypes.AuthUser{
			ID:    account.ID,
			Name:  account.Name,
			Email: account.Email,
			Role:  account.Role,
		},
	})
}

// Me returns the authenticated account's profile.
func (h *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid user claims",
		})
	}

	account, err := h.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, userService.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "User not found",
			})
		}
		logger.Error("Failed to fetch user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		Data:    account,
	})
}
