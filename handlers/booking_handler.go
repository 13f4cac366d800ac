package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/srr-project/srr-backend/middleware"
	"github.com/srr-project/srr-backend/models"
	"github.com/srr-project/srr-backend/services"
)

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type CreateBookingRequest struct {
	ResourceID string `json:"resource_id" validate:"required,uuid"`
	StartTime  string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime    string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Purpose    string `json:"purpose" validate:"required"`
	Attendees  int    `json:"attendees,omitempty" validate:"omitempty,min=1"`
}

type UpdateBookingRequest struct {
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime   *string `json:"end_time,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Purpose   *string `json:"purpose,omitempty"`
	Attendees *int    `json:"attendees,omitempty" validate:"omitempty,min=1"`
}

type DecisionRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=approved rejected"`
	Comment  *string `json:"comment,omitempty"`
}

func (h *BookingHandler) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	resourceID, _ := uuid.Parse(req.ResourceID)
	start, _ := time.Parse(time.RFC3339, req.StartTime)
	end, _ := time.Parse(time.RFC3339, req.EndTime)

	booking, err := h.bookings.Create(actor, services.CreateBookingInput{
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    end,
		Purpose:    req.Purpose,
		Attendees:  req.Attendees,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)

	filter := services.BookingFilter{
		MineOnly: c.QueryBool("mine", false),
	}
	if raw := c.Query("resource_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource_id"})
		}
		filter.ResourceID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.BookingStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid from timestamp"})
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid to timestamp"})
		}
		filter.To = &to
	}

	bookings, err := h.bookings.List(actor, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bookings)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := h.bookings.Get(actor, bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Update(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	in := services.UpdateBookingInput{
		Purpose:   req.Purpose,
		Attendees: req.Attendees,
	}
	if req.StartTime != nil {
		start, _ := time.Parse(time.RFC3339, *req.StartTime)
		in.StartTime = &start
	}
	if req.EndTime != nil {
		end, _ := time.Parse(time.RFC3339, *req.EndTime)
		in.EndTime = &end
	}

	booking, err := h.bookings.Update(actor, bookingID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, err := h.bookings.Cancel(actor, bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}

// Decide records a manager's approval or rejection of a pending booking.
func (h *BookingHandler) Decide(c *fiber.Ctx) error {
	actor := middleware.CurrentActor(c)
	bookingID, err := uuid.Parse(c.Params("bookingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.Decide(actor, bookingID, models.ApprovalStatus(req.Decision), req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(booking)
}
