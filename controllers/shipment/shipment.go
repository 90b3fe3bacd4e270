package shipment

import (
	"errors"
	"fmt"

	"courier-backend/constants"
	"courier-backend/logger"
	"courier-backend/middleware"
	shipmentModel "courier-backend/models/shipment"
	shipmentService "courier-backend/services/shipment"
	"courier-backend/types"
	shipmentTypes "courier-backend/types/shipment"
	"courier-backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	timelineTimeFormat = "03:04 PM"
	timelineDateFormat = "Jan 2"
	etaDateFormat      = "Jan 2, 2006"
)

type ShipmentController struct {
	shipments      *shipmentService.Service
	loggerInstance *logger.AsyncLogger
}

func NewShipmentController(shipments *shipmentService.Service, asyncLogger *logger.AsyncLogger) *ShipmentController {
	return &ShipmentController{shipments: shipments, loggerInstance: asyncLogger}
}

// Track serves the public tracking view for a tracking id. No auth; internal
// errors are logged and never echoed to the caller.
func (h *ShipmentController) Track(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	sh, err := h.shipments.FindByTrackingID(trackingID)
	if err != nil {
		if errors.Is(err, shipmentService.ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "Tracking number not found in our system",
			})
		}
		logger.Error("Failed to look up shipment for tracking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Failed to track shipment",
		})
	}

	timeline, err := h.shipments.Timeline(sh.ID)
	if err != nil {
		logger.Error("Failed to load shipment timeline", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Failed to track shipment",
		})
	}

	return c.Status(fiber.StatusOK).JSON(shipmentTypes.TrackingResponse{
		Success: true,
		Data:    buildTrackingView(sh, timeline),
	})
}

// buildTrackingView converts a shipment row and its timeline into the
// display-ready public payload.
func buildTrackingView(sh *shipmentModel.Shipment, timeline []shipmentModel.TimelineEntry) shipmentTypes.TrackingView {
	eta := "TBD"
	if sh.EstimatedDelivery != nil {
		eta = sh.EstimatedDelivery.Format(etaDateFormat)
	}

	weight := "N/A"
	if sh.Weight > 0 {
		weight = fmt.Sprintf("%g kg", sh.Weight)
	}

	history := make([]shipmentTypes.HistoryEntry, 0, len(timeline))
	for i, entry := range timeline {
		history = append(history, shipmentTypes.HistoryEntry{
			Status:      entry.Status.String(),
			Loc:         entry.Location,
			Description: entry.Description,
			Time:        entry.Timestamp.Format(timelineTimeFormat),
			Date:        entry.Timestamp.Format(timelineDateFormat),
			Active:      i == 0,
		})
	}

	return shipmentTypes.TrackingView{
		ID:       sh.TrackingID,
		Status:   sh.Status.String(),
		Progress: sh.Status.ProgressPercentage(),
		ETA:      eta,
		Origin: shipmentTypes.TrackingPoint{
			City: sh.SenderCity,
			Code: shipmentService.CityCode(sh.SenderCity),
		},
		Destination: shipmentTypes.TrackingPoint{
			City:    sh.ReceiverCity,
			Code:    shipmentService.CityCode(sh.ReceiverCity),
			Address: sh.ReceiverAddress,
		},
		Details: shipmentTypes.TrackingDetails{
			Weight:      weight,
			Service:     sh.PackageType,
			Pieces:      1,
			Description: sh.Description,
		},
		History: history,
	}
}

// Create books a shipment for the authenticated sender.
func (h *ShipmentController) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid user claims",
		})
	}

	var req shipmentTypes.CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse shipment create body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}

	sh, err := h.shipments.Create(userID, req)
	if err != nil {
		if errors.Is(err, shipmentService.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "User not found",
			})
		}
		logger.Error("Failed to create shipment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success(fmt.Sprintf("Shipment created successfully: %s", sh.TrackingID))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Shipment created successfully",
		Status:  fiber.StatusCreated,
		Data:    sh,
	})
}

// GetUserShipments lists the authenticated sender's shipments.
func (h *ShipmentController) GetUserShipments(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid user claims",
		})
	}

	shipments, err := h.shipments.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to list user shipments", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipments fetched successfully",
		Status:  fiber.StatusOK,
		Data:    shipments,
	})
}

// GetAll lists shipments for the back office: admins see everything, agents
// only their own assignments.
func (h *ShipmentController) GetAll(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	var (
		shipments []shipmentModel.Shipment
		err       error
	)
	if role == constants.RoleAgent {
		shipments, err = h.shipments.FindByAgentID(userID)
	} else {
		shipments, err = h.shipments.FindAll()
	}
	if err != nil {
		logger.Error("Failed to list shipments", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipments fetched successfully",
		Status:  fiber.StatusOK,
		Data:    shipments,
	})
}

// GetDetails returns one shipment with its timeline. Agents may only read
// shipments assigned to them.
func (h *ShipmentController) GetDetails(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	sh, err := h.shipments.FindByTrackingID(trackingID)
	if err != nil {
		if errors.Is(err, shipmentService.ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "Shipment not found",
			})
		}
		logger.Error("Failed to look up shipment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	if !h.agentMayAccess(c, sh) {
		return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
			Message: "Access denied",
		})
	}

	timeline, err := h.shipments.Timeline(sh.ID)
	if err != nil {
		logger.Error("Failed to load shipment timeline", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipment fetched successfully",
		Status:  fiber.StatusOK,
		Data: fiber.Map{
			"shipment": sh,
			"timeline": timeline,
		},
	})
}

// UpdateStatus moves a shipment to a new status. Agents may only update
// shipments assigned to them.
func (h *ShipmentController) UpdateStatus(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	sh, err := h.shipments.FindByTrackingID(trackingID)
	if err != nil {
		if errors.Is(err, shipmentService.ErrShipmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "Shipment not found",
			})
		}
		logger.Error("Failed to look up shipment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
			Message: "Server error",
		})
	}

	if !h.agentMayAccess(c, sh) {
		return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
			Message: "Access denied",
		})
	}

	var req shipmentTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse status update body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}

	userID, _ := middleware.GetUserID(c)
	err = h.shipments.UpdateStatus(trackingID, shipmentModel.ShipmentStatus(req.Status), req.Location, req.Description, &userID)
	if err != nil {
		switch {
		case errors.Is(err, shipmentService.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Message: fmt.Sprintf("Unknown shipment status: %s", req.Status),
			})
		case errors.Is(err, shipmentService.ErrShipmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "Shipment not found",
			})
		default:
			logger.Error("Failed to update shipment status", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
				Message: "Server error",
			})
		}
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success(fmt.Sprintf("Shipment %s status updated to %s", trackingID, req.Status))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Shipment status updated",
		Status:  fiber.StatusOK,
	})
}

// AssignAgent sets the handling agent on a shipment. Admin only (enforced in
// routing).
func (h *ShipmentController) AssignAgent(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")

	var req shipmentTypes.AssignAgentRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse agent assign body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: "Invalid request body",
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Message: err.Error(),
		})
	}

	if err := h.shipments.AssignAgent(trackingID, req.AgentID); err != nil {
		switch {
		case errors.Is(err, shipmentService.ErrShipmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
				Message: "Shipment not found",
			})
		case errors.Is(err, shipmentService.ErrNotAnAgent):
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Message: "Assignee is not an agent",
			})
		default:
			logger.Error("Failed to assign agent", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
				Message: "Server error",
			})
		}
	}

	h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c))
	logger.Success(fmt.Sprintf("Agent %d assigned to shipment %s", req.AgentID, trackingID))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Agent assigned successfully",
		Status:  fiber.StatusOK,
	})
}

// agentMayAccess enforces agent scoping: an agent may only touch shipments
// where agent_id matches their own id. Other roles pass through.
func (h *ShipmentController) agentMayAccess(c *fiber.Ctx, sh *shipmentModel.Shipment) bool {
	role, _ := middleware.GetUserRole(c)
	if role != constants.RoleAgent {
		return true
	}
	userID, _ := middleware.GetUserID(c)
	return sh.AgentID != nil && *sh.AgentID == userID
}
