package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/apperror"
	"github.com/srr-project/srr-backend/models"
)

func newTestResourceService(db *gorm.DB) *ResourceService {
	svc := NewResourceService(db)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestCreateResourceTypeRejectsUndeclaredRequired(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)

	_, err := svc.CreateResourceType(ResourceTypeInput{
		Name: "vehicle",
		Schema: map[string]interface{}{
			"seats": map[string]interface{}{"type": "integer"},
		},
		RequiredProperties: []string{"seats", "fuel"},
	})
	wantKind(t, err, apperror.KindValidation)
}

func TestCreateResourceTypeDuplicateName(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)

	in := ResourceTypeInput{Name: "vehicle", Schema: map[string]interface{}{}}
	if _, err := svc.CreateResourceType(in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateResourceType(in)
	wantKind(t, err, apperror.KindValidation)
}

func TestDeleteResourceTypeBlockedWhileReferenced(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)
	rt := createRoomType(t, db)
	createRoom(t, db, rt, "room-a", false)

	err := svc.DeleteResourceType(rt.ID)
	wantKind(t, err, apperror.KindInvalidState)

	db.Where("resource_type_id = ?", rt.ID).Delete(&models.Resource{})
	if err := svc.DeleteResourceType(rt.ID); err != nil {
		t.Fatalf("delete unreferenced type: %v", err)
	}
}

func TestCreateResourceValidatesProperties(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)

	rt, err := svc.CreateResourceType(ResourceTypeInput{
		Name: "meeting_room",
		Schema: map[string]interface{}{
			"capacity": map[string]interface{}{"type": "integer", "min": 1, "max": 100},
			"floor":    map[string]interface{}{"type": "string", "enum": []interface{}{"G", "1", "2"}},
			"has_vc":   map[string]interface{}{"type": "boolean"},
		},
		RequiredProperties: []string{"capacity"},
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}

	cases := []struct {
		name  string
		props map[string]interface{}
		ok    bool
	}{
		{"valid minimal", map[string]interface{}{"capacity": 8}, true},
		{"valid full", map[string]interface{}{"capacity": 8, "floor": "G", "has_vc": true}, true},
		{"missing required", map[string]interface{}{"floor": "G"}, false},
		{"wrong type", map[string]interface{}{"capacity": "eight"}, false},
		{"non-integer", map[string]interface{}{"capacity": 8.5}, false},
		{"below min", map[string]interface{}{"capacity": 0}, false},
		{"above max", map[string]interface{}{"capacity": 500}, false},
		{"bad enum", map[string]interface{}{"capacity": 8, "floor": "B2"}, false},
		{"bad boolean", map[string]interface{}{"capacity": 8, "has_vc": "yes"}, false},
		{"undeclared extra passes through", map[string]interface{}{"capacity": 8, "colour": "red"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateResource(ResourceInput{
				Name:           "room " + tc.name,
				ResourceTypeID: rt.ID,
				Properties:     tc.props,
			})
			if tc.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.ok {
				wantKind(t, err, apperror.KindValidation)
			}
		})
	}
}

func TestRangeChecksSurviveStoreReload(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)

	created, err := svc.CreateResourceType(ResourceTypeInput{
		Name: "meeting_room",
		Schema: map[string]interface{}{
			"capacity": map[string]interface{}{"type": "integer", "min": 2, "max": 10},
		},
		RequiredProperties: []string{"capacity"},
	})
	if err != nil {
		t.Fatalf("create type: %v", err)
	}

	// the bounds have been serialized into the JSON column and back
	reloaded, err := svc.GetResourceType(created.ID)
	if err != nil {
		t.Fatalf("reload type: %v", err)
	}

	err = ValidateProperties(reloaded, map[string]interface{}{"capacity": 1})
	wantKind(t, err, apperror.KindValidation)

	err = ValidateProperties(reloaded, map[string]interface{}{"capacity": 11})
	wantKind(t, err, apperror.KindValidation)

	if err := ValidateProperties(reloaded, map[string]interface{}{"capacity": 5}); err != nil {
		t.Errorf("in-range value must pass after reload: %v", err)
	}
}

func TestCreateResourceUnknownType(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)

	_, err := svc.CreateResource(ResourceInput{
		Name:           "room-a",
		ResourceTypeID: uuid.New(),
		Properties:     map[string]interface{}{},
	})
	wantKind(t, err, apperror.KindNotFound)
}

func TestUpdateResourceRevalidatesProperties(t *testing.T) {
	db := openTestDB(t)
	svc := newTestResourceService(db)
	rt := createRoomType(t, db)
	room := createRoom(t, db, rt, "room-a", false)

	_, err := svc.UpdateResource(room.ID, ResourceInput{
		Name:           room.Name,
		ResourceTypeID: rt.ID,
		Properties:     map[string]interface{}{},
	})
	wantKind(t, err, apperror.KindValidation)

	updated, err := svc.UpdateResource(room.ID, ResourceInput{
		Name:             "room-a-renamed",
		ResourceTypeID:   rt.ID,
		Properties:       map[string]interface{}{"capacity": 12},
		RequiresApproval: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "room-a-renamed" || !updated.RequiresApproval {
		t.Errorf("update not applied: name=%s requires_approval=%t", updated.Name, updated.RequiresApproval)
	}
}

func TestDeleteResourceBlockedByFutureBookings(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	rt := createRoomType(t, db)
	room := createRoom(t, db, rt, "room-a", false)
	bookings := newTestBookingService(db)
	svc := newTestResourceService(db)

	booking := mustCreateBooking(t, bookings, actorFor(alice), room.ID, at(10, 0), at(11, 0))

	err := svc.DeleteResource(room.ID)
	wantKind(t, err, apperror.KindInvalidState)

	// once the only blocking booking is cancelled deletion goes through
	if _, err := bookings.Cancel(actorFor(alice), booking.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.DeleteResource(room.ID); err != nil {
		t.Fatalf("delete after cancel: %v", err)
	}
}

func TestDeleteResourceIgnoresPastBookings(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	rt := createRoomType(t, db)
	room := createRoom(t, db, rt, "room-a", false)
	svc := newTestResourceService(db)

	past := models.Booking{
		ResourceID: room.ID,
		UserID:     alice.ID,
		StartTime:  at(6, 0),
		EndTime:    at(7, 0),
		Status:     models.BookingConfirmed,
		Purpose:    "old meeting",
		Attendees:  1,
	}
	if err := db.Create(&past).Error; err != nil {
		t.Fatalf("seed past booking: %v", err)
	}

	if err := svc.DeleteResource(room.ID); err != nil {
		t.Fatalf("past history must not block deletion: %v", err)
	}
}

func TestManagerAssignment(t *testing.T) {
	db := openTestDB(t)
	manager := createUser(t, db, "manager", models.RoleUser, models.RoleResourceManager)
	inactive := createUser(t, db, "ghost")
	db.Model(inactive).Update("active", false)
	rt := createRoomType(t, db)
	room := createRoom(t, db, rt, "room-a", true)
	svc := newTestResourceService(db)

	updated, err := svc.AddManager(room.ID, manager.ID)
	if err != nil {
		t.Fatalf("add manager: %v", err)
	}
	if !updated.IsManager(manager.ID) {
		t.Error("manager not attached")
	}

	_, err = svc.AddManager(room.ID, inactive.ID)
	wantKind(t, err, apperror.KindValidation)

	_, err = svc.AddManager(room.ID, uuid.New())
	wantKind(t, err, apperror.KindNotFound)

	updated, err = svc.RemoveManager(room.ID, manager.ID)
	if err != nil {
		t.Fatalf("remove manager: %v", err)
	}
	if updated.IsManager(manager.ID) {
		t.Error("manager still attached after removal")
	}

	_, err = svc.RemoveManager(room.ID, manager.ID)
	wantKind(t, err, apperror.KindNotFound)
}
