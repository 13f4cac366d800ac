package database

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/directory"
	"github.com/srr-project/srr-backend/models"
)

// SeedDirectoryUsers mirrors every directory account into the users table
// so bookings can reference managers before they have ever signed in.
func SeedDirectoryUsers(db *gorm.DB, dir directory.Service) {
	for _, account := range dir.Accounts() {
		var count int64
		if err := db.Model(&models.User{}).Where("username = ?", account.Username).Count(&count).Error; err != nil {
			log.Fatalf("🔥 Failed to check for user %s: %v", account.Username, err)
		}
		if count > 0 {
			continue
		}

		user := models.User{
			ID:             account.ID,
			Username:       account.Username,
			Email:          account.Email,
			FullName:       account.FullName,
			Roles:          datatypes.JSONSlice[string](account.Roles),
			Department:     account.Department,
			Organization:   account.Organization,
			Position:       account.Position,
			Active:         account.Active,
			HashedPassword: account.HashedPassword,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("🔥 Failed to seed user %s: %v", account.Username, err)
		}
	}
	log.Println("✅ Directory users seeded")
}

// SeedSampleCatalog creates a small resource catalog for development. It is
// a no-op once any resource type exists.
func SeedSampleCatalog(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.ResourceType{}).Count(&count).Error; err != nil {
		log.Fatalf("🔥 Failed to check resource types: %v", err)
	}
	if count > 0 {
		log.Println("Sample catalog already present, skipping seed.")
		return
	}

	roomType := models.ResourceType{
		Name:        "meeting_room",
		Description: "Bookable meeting rooms",
		Schema: datatypes.JSONMap{
			"capacity":  map[string]interface{}{"type": "integer", "min": 1},
			"floor":     map[string]interface{}{"type": "integer"},
			"projector": map[string]interface{}{"type": "boolean"},
		},
		RequiredProperties: datatypes.JSONSlice[string]{"capacity"},
	}
	vehicleType := models.ResourceType{
		Name:        "vehicle",
		Description: "Service vehicles",
		Schema: datatypes.JSONMap{
			"seats": map[string]interface{}{"type": "integer", "min": 1},
			"fuel":  map[string]interface{}{"type": "string", "enum": []interface{}{"petrol", "diesel", "electric"}},
		},
		RequiredProperties: datatypes.JSONSlice[string]{"seats"},
	}
	if err := db.Create(&roomType).Error; err != nil {
		log.Fatalf("🔥 Failed to seed resource types: %v", err)
	}
	if err := db.Create(&vehicleType).Error; err != nil {
		log.Fatalf("🔥 Failed to seed resource types: %v", err)
	}

	var manager models.User
	hasManager := db.Where("username = ?", "manager").First(&manager).Error == nil

	resources := []models.Resource{
		{
			Name:           "Council room",
			Description:    "Large meeting room on the ground floor",
			ResourceTypeID: roomType.ID,
			Properties: datatypes.JSONMap{
				"capacity":  20,
				"floor":     0,
				"projector": true,
			},
			RequiresApproval: true,
			Active:           true,
		},
		{
			Name:           "Small huddle room",
			Description:    "Four-person room next to the lobby",
			ResourceTypeID: roomType.ID,
			Properties: datatypes.JSONMap{
				"capacity": 4,
			},
			RequiresApproval: false,
			Active:           true,
		},
		{
			Name:           "Pool car 1",
			Description:    "Shared electric car",
			ResourceTypeID: vehicleType.ID,
			Properties: datatypes.JSONMap{
				"seats": 5,
				"fuel":  "electric",
			},
			RequiresApproval: true,
			Active:           true,
		},
	}
	for i := range resources {
		if err := db.Create(&resources[i]).Error; err != nil {
			log.Fatalf("🔥 Failed to seed resource %s: %v", resources[i].Name, err)
		}
		if hasManager && resources[i].RequiresApproval {
			if err := db.Model(&resources[i]).Association("Managers").Append(&manager); err != nil {
				log.Fatalf("🔥 Failed to attach manager to %s: %v", resources[i].Name, err)
			}
		}
	}

	log.Println("✅ Sample catalog seeded")
}
