package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/srr-project/srr-backend/services"
)

type ResourceTypeHandler struct {
	resources *services.ResourceService
}

func NewResourceTypeHandler(resources *services.ResourceService) *ResourceTypeHandler {
	return &ResourceTypeHandler{resources: resources}
}

type ResourceTypeRequest struct {
	Name               string                 `json:"name" validate:"required,min=1,max=100"`
	Description        string                 `json:"description"`
	Schema             map[string]interface{} `json:"schema"`
	RequiredProperties []string               `json:"required_properties"`
}

func (h *ResourceTypeHandler) List(c *fiber.Ctx) error {
	types, err := h.resources.ListResourceTypes()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types)
}

func (h *ResourceTypeHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("typeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource type id"})
	}
	rt, err := h.resources.GetResourceType(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rt)
}

func (h *ResourceTypeHandler) Create(c *fiber.Ctx) error {
	var req ResourceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rt, err := h.resources.CreateResourceType(services.ResourceTypeInput{
		Name:               req.Name,
		Description:        req.Description,
		Schema:             req.Schema,
		RequiredProperties: req.RequiredProperties,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rt)
}

func (h *ResourceTypeHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("typeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource type id"})
	}

	var req ResourceTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rt, err := h.resources.UpdateResourceType(id, services.ResourceTypeInput{
		Name:               req.Name,
		Description:        req.Description,
		Schema:             req.Schema,
		RequiredProperties: req.RequiredProperties,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rt)
}

func (h *ResourceTypeHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("typeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource type id"})
	}
	if err := h.resources.DeleteResourceType(id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
