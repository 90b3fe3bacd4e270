package user

import (
	"errors"

	"courier-backend/logger"
	"courier-backend/middleware"
	userService "courier-backend/services/user"
	"courier-backend/types"
	userTypes "courier-backend/types/user"
	"courier-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	users          *userService.Service
	loggerInstance *logger.AsyncLogger
}

func NewUserController(users *userService.Service, asyncLogger *logger.AsyncLogger) *UserController {
	return &UserController{users: users, loggerInstance: asyncLogger}
}

// GetProfile returns the authenticated account without its password hash.
func (h *UserController) GetProfile(c *fiber.Ctx) error {
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
		logger.Error("Failed to fetch user profile", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Profile fetched successfully",
		Status:  fiber.StatusOK,
		Data:    account,
	})
}

// UpdateProfile overwrites the mutable profile fields.
func (h *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid user claims",
		})
	}

	var req userTypes.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse profile update body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}

	if err := h.users.UpdateProfile(userID, req); err != nil {
		logger.Error("Failed to update profile", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Profile updated successfully",
		Status:  fiber.StatusOK,
	})
}

// UpdatePassword verifies the current password and stores a fresh hash of
// the new one.
func (h *UserController) UpdatePassword(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid user claims",
		})
	}

	var req userTypes.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse password update body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}

	account, err := h.users.FindByIDWithPassword(userID)
	if err != nil {
		if errors.Is(err, userService.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "User not found",
			})
		}
		logger.Error("Failed to fetch user for password change", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	if !utils.CheckPassword(req.CurrentPassword, account.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Current password is incorrect",
		})
	}

	if err := h.users.UpdatePassword(userID, req.NewPassword); err != nil {
		logger.Error("Failed to update password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success("Password updated successfully")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Password updated successfully",
		Status:  fiber.StatusOK,
	})
}

// GetStats returns the sender's shipment counters.
func (h *UserController) GetStats(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid user claims",
		})
	}

	stats, err := h.users.Stats(userID)
	if err != nil {
		logger.Error("Failed to compute user stats", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Stats fetched successfully",
		Status:  fiber.StatusOK,
		Data:    stats,
	})
}
