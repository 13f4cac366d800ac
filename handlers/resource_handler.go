package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/srr-project/srr-backend/services"
)

type ResourceHandler struct {
	resources *services.ResourceService
	bookings  *services.BookingService
}

func NewResourceHandler(resources *services.ResourceService, bookings *services.BookingService) *ResourceHandler {
	return &ResourceHandler{resources: resources, bookings: bookings}
}

type ResourceRequest struct {
	Name             string                 `json:"name" validate:"required,min=1,max=100"`
	Description      string                 `json:"description"`
	ResourceTypeID   string                 `json:"resource_type_id" validate:"required,uuid"`
	Properties       map[string]interface{} `json:"properties"`
	RequiresApproval bool                   `json:"requires_approval"`
	Active           *bool                  `json:"active,omitempty"`
}

func (h *ResourceHandler) List(c *fiber.Ctx) error {
	onlyActive := c.QueryBool("active", true)
	resources, err := h.resources.ListResources(onlyActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resources)
}

func (h *ResourceHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("resourceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}
	resource, err := h.resources.GetResource(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resource)
}

// CheckAvailability answers whether the resource is free over
// [start, end). The answer is advisory; booking creation re-checks under
// lock.
func (h *ResourceHandler) CheckAvailability(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("resourceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or missing start timestamp"})
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid or missing end timestamp"})
	}

	available, conflicts, err := h.bookings.CheckAvailability(id, start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"available": available, "conflicts": conflicts})
}

func (h *ResourceHandler) Create(c *fiber.Ctx) error {
	var req ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	typeID, _ := uuid.Parse(req.ResourceTypeID)
	resource, err := h.resources.CreateResource(services.ResourceInput{
		Name:             req.Name,
		Description:      req.Description,
		ResourceTypeID:   typeID,
		Properties:       req.Properties,
		RequiresApproval: req.RequiresApproval,
		Active:           req.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resource)
}

func (h *ResourceHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("resourceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}

	var req ResourceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	typeID, _ := uuid.Parse(req.ResourceTypeID)
	resource, err := h.resources.UpdateResource(id, services.ResourceInput{
		Name:             req.Name,
		Description:      req.Description,
		ResourceTypeID:   typeID,
		Properties:       req.Properties,
		RequiresApproval: req.RequiresApproval,
		Active:           req.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resource)
}

func (h *ResourceHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("resourceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}
	if err := h.resources.DeleteResource(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ResourceHandler) AddManager(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("resourceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	resource, err := h.resources.AddManager(resourceID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resource)
}

func (h *ResourceHandler) RemoveManager(c *fiber.Ctx) error {
	resourceID, err := uuid.Parse(c.Params("resourceId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource id"})
	}
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	resource, err := h.resources.RemoveManager(resourceID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resource)
}
