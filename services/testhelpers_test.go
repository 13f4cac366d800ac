package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/srr-project/srr-backend/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.ResourceType{},
		&models.Resource{},
		&models.Booking{},
		&models.BookingApproval{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, roles ...string) *models.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Roles:    datatypes.JSONSlice[string](roles),
		Active:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

func createRoomType(t *testing.T, db *gorm.DB) *models.ResourceType {
	t.Helper()
	rt := models.ResourceType{
		Name: "meeting_room",
		Schema: datatypes.JSONMap{
			"capacity": map[string]interface{}{"type": "integer", "min": float64(1)},
		},
		RequiredProperties: datatypes.JSONSlice[string]{"capacity"},
	}
	if err := db.Create(&rt).Error; err != nil {
		t.Fatalf("create resource type: %v", err)
	}
	return &rt
}

func createRoom(t *testing.T, db *gorm.DB, rt *models.ResourceType, name string, requiresApproval bool, managers ...*models.User) *models.Resource {
	t.Helper()
	resource := models.Resource{
		Name:             name,
		ResourceTypeID:   rt.ID,
		Properties:       datatypes.JSONMap{"capacity": float64(8)},
		RequiresApproval: requiresApproval,
		Active:           true,
	}
	if err := db.Create(&resource).Error; err != nil {
		t.Fatalf("create resource %s: %v", name, err)
	}
	for _, m := range managers {
		if err := db.Model(&resource).Association("Managers").Append(m); err != nil {
			t.Fatalf("attach manager to %s: %v", name, err)
		}
	}
	return &resource
}

func actorFor(user *models.User) Actor {
	return Actor{ID: user.ID, Roles: []string(user.Roles)}
}

// fixedClock pins the service clock so window validation is deterministic.
var testNow = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func newTestBookingService(db *gorm.DB) *BookingService {
	svc := NewBookingService(db, NewAvailabilityService(), nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func mustCreateBooking(t *testing.T, svc *BookingService, actor Actor, resourceID uuid.UUID, start, end time.Time) *models.Booking {
	t.Helper()
	booking, err := svc.Create(actor, CreateBookingInput{
		ResourceID: resourceID,
		StartTime:  start,
		EndTime:    end,
		Purpose:    "team sync",
	})
	if err != nil {
		t.Fatalf("create booking [%s, %s): %v", start, end, err)
	}
	return booking
}
