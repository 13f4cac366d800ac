package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/apperror"
	"github.com/srr-project/srr-backend/models"
)

// ResourceService owns the resource catalog: resource types with their
// property schemas, resource instances, and the manager associations.
type ResourceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{db: db, now: time.Now}
}

type ResourceTypeInput struct {
	Name               string
	Description        string
	Schema             map[string]interface{}
	RequiredProperties []string
}

type ResourceInput struct {
	Name             string
	Description      string
	ResourceTypeID   uuid.UUID
	Properties       map[string]interface{}
	RequiresApproval bool
	Active           *bool
}

func (s *ResourceService) CreateResourceType(in ResourceTypeInput) (*models.ResourceType, error) {
	if err := validateSchemaShape(in.Schema, in.RequiredProperties); err != nil {
		return nil, err
	}

	rt := models.ResourceType{
		Name:               in.Name,
		Description:        in.Description,
		Schema:             datatypes.JSONMap(in.Schema),
		RequiredProperties: datatypes.JSONSlice[string](in.RequiredProperties),
	}
	if err := s.db.Create(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation(fmt.Sprintf("resource type '%s' already exists", in.Name))
		}
		return nil, err
	}
	return &rt, nil
}

func (s *ResourceService) UpdateResourceType(id uuid.UUID, in ResourceTypeInput) (*models.ResourceType, error) {
	if err := validateSchemaShape(in.Schema, in.RequiredProperties); err != nil {
		return nil, err
	}

	var rt models.ResourceType
	if err := s.db.First(&rt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("resource type not found")
		}
		return nil, err
	}

	rt.Name = in.Name
	rt.Description = in.Description
	rt.Schema = datatypes.JSONMap(in.Schema)
	rt.RequiredProperties = datatypes.JSONSlice[string](in.RequiredProperties)
	if err := s.db.Save(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validation(fmt.Sprintf("resource type '%s' already exists", in.Name))
		}
		return nil, err
	}
	return &rt, nil
}

// DeleteResourceType removes a type that no resource references.
func (s *ResourceService) DeleteResourceType(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rt models.ResourceType
		if err := tx.First(&rt, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("resource type not found")
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Resource{}).Where("resource_type_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.InvalidState("resource type is still referenced by resources")
		}
		return tx.Delete(&rt).Error
	})
}

func (s *ResourceService) ListResourceTypes() ([]models.ResourceType, error) {
	var types []models.ResourceType
	if err := s.db.Order("name asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (s *ResourceService) GetResourceType(id uuid.UUID) (*models.ResourceType, error) {
	var rt models.ResourceType
	if err := s.db.First(&rt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("resource type not found")
		}
		return nil, err
	}
	return &rt, nil
}

func (s *ResourceService) CreateResource(in ResourceInput) (*models.Resource, error) {
	rt, err := s.GetResourceType(in.ResourceTypeID)
	if err != nil {
		return nil, err
	}
	if err := ValidateProperties(rt, in.Properties); err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	resource := models.Resource{
		Name:             in.Name,
		Description:      in.Description,
		ResourceTypeID:   rt.ID,
		Properties:       datatypes.JSONMap(in.Properties),
		RequiresApproval: in.RequiresApproval,
		Active:           active,
	}
	if err := s.db.Create(&resource).Error; err != nil {
		return nil, err
	}
	resource.ResourceType = *rt
	return &resource, nil
}

func (s *ResourceService) UpdateResource(id uuid.UUID, in ResourceInput) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.Preload("Managers").First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("resource not found")
		}
		return nil, err
	}

	rt, err := s.GetResourceType(in.ResourceTypeID)
	if err != nil {
		return nil, err
	}
	if err := ValidateProperties(rt, in.Properties); err != nil {
		return nil, err
	}

	resource.Name = in.Name
	resource.Description = in.Description
	resource.ResourceTypeID = rt.ID
	resource.Properties = datatypes.JSONMap(in.Properties)
	resource.RequiresApproval = in.RequiresApproval
	if in.Active != nil {
		resource.Active = *in.Active
	}
	if err := s.db.Save(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

// DeleteResource refuses to remove a resource while blocking bookings with
// a future end still reference it; past history never blocks deletion.
func (s *ResourceService) DeleteResource(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var resource models.Resource
		if err := tx.First(&resource, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("resource not found")
			}
			return err
		}

		var count int64
		err := tx.Model(&models.Booking{}).
			Where("resource_id = ?", id).
			Where("status IN ?", []models.BookingStatus{models.BookingPending, models.BookingConfirmed}).
			Where("end_time > ?", s.now()).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperror.InvalidState("resource has active or future bookings")
		}

		if err := tx.Model(&resource).Association("Managers").Clear(); err != nil {
			return err
		}
		return tx.Delete(&resource).Error
	})
}

func (s *ResourceService) ListResources(onlyActive bool) ([]models.Resource, error) {
	query := s.db.Preload("ResourceType").Order("name asc")
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	var resources []models.Resource
	if err := query.Find(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (s *ResourceService) GetResource(id uuid.UUID) (*models.Resource, error) {
	var resource models.Resource
	if err := s.db.Preload("ResourceType").Preload("Managers").First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("resource not found")
		}
		return nil, err
	}
	return &resource, nil
}

func (s *ResourceService) AddManager(resourceID, userID uuid.UUID) (*models.Resource, error) {
	resource, err := s.GetResource(resourceID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperror.Validation("cannot assign an inactive user as manager")
	}

	if err := s.db.Model(resource).Association("Managers").Append(&user); err != nil {
		return nil, err
	}
	return s.GetResource(resourceID)
}

func (s *ResourceService) RemoveManager(resourceID, userID uuid.UUID) (*models.Resource, error) {
	resource, err := s.GetResource(resourceID)
	if err != nil {
		return nil, err
	}
	if !resource.IsManager(userID) {
		return nil, apperror.NotFound("user is not a manager of this resource")
	}

	if err := s.db.Model(resource).Association("Managers").Delete(&models.User{ID: userID}); err != nil {
		return nil, err
	}
	return s.GetResource(resourceID)
}

// validateSchemaShape enforces the resource-type invariant: every property
// declared required must exist in the schema.
func validateSchemaShape(schema map[string]interface{}, required []string) error {
	for _, name := range required {
		if _, ok := schema[name]; !ok {
			return apperror.Validation(fmt.Sprintf("required property '%s' is not declared in the schema", name))
		}
	}
	return nil
}

// ValidateProperties checks a resource's property map against its type:
// required keys must be present, and any property the schema declares must
// match its type, enum and range constraints.
func ValidateProperties(rt *models.ResourceType, properties map[string]interface{}) error {
	for _, name := range rt.RequiredProperties {
		if _, ok := properties[name]; !ok {
			return apperror.Validation(fmt.Sprintf("required property '%s' is missing", name))
		}
	}

	for name, value := range properties {
		raw, ok := rt.Schema[name]
		if !ok {
			continue
		}
		spec, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if err := validatePropertyValue(name, value, spec); err != nil {
			return err
		}
	}
	return nil
}

func validatePropertyValue(name string, value interface{}, spec map[string]interface{}) error {
	if declared, ok := spec["type"].(string); ok {
		switch declared {
		case "string":
			if _, ok := value.(string); !ok {
				return apperror.Validation(fmt.Sprintf("property '%s' must be a string", name))
			}
		case "boolean":
			if _, ok := value.(bool); !ok {
				return apperror.Validation(fmt.Sprintf("property '%s' must be a boolean", name))
			}
		case "number", "integer":
			n, ok := toFloat(value)
			if !ok {
				return apperror.Validation(fmt.Sprintf("property '%s' must be a number", name))
			}
			if declared == "integer" && n != math.Trunc(n) {
				return apperror.Validation(fmt.Sprintf("property '%s' must be an integer", name))
			}
			if min, ok := constraintFloat(spec["min"]); ok && n < min {
				return apperror.Validation(fmt.Sprintf("property '%s' must be >= %v", name, spec["min"]))
			}
			if max, ok := constraintFloat(spec["max"]); ok && n > max {
				return apperror.Validation(fmt.Sprintf("property '%s' must be <= %v", name, spec["max"]))
			}
		}
	}

	if rawEnum, ok := spec["enum"].([]interface{}); ok && len(rawEnum) > 0 {
		for _, allowed := range rawEnum {
			if value == allowed {
				return nil
			}
		}
		return apperror.Validation(fmt.Sprintf("property '%s' must be one of the allowed values", name))
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// constraintFloat reads a schema bound. Bounds written as Go numbers come
// back from the JSON column as float64, json.Number or string depending on
// the driver, so all three count; property values stay strictly typed.
func constraintFloat(v interface{}) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
