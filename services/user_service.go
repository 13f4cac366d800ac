package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/srr-project/srr-backend/apperror"
	"github.com/srr-project/srr-backend/directory"
	"github.com/srr-project/srr-backend/models"
)

// UserService keeps the local user table in step with the directory service
// and exposes the small amount of admin user management the system needs.
// Accounts are deactivated, never hard-deleted, so bookings and approvals
// keep valid references.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// SyncDirectoryAccount upserts the local copy of a directory account. It is
// called on every successful login so role or department changes in the
// directory propagate on the next sign-in.
func (s *UserService) SyncDirectoryAccount(account *directory.Account) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", account.Username).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{}
		if account.ID != uuid.Nil {
			user.ID = account.ID
		}
	}

	user.Username = account.Username
	user.Email = account.Email
	user.FullName = account.FullName
	user.Roles = datatypes.JSONSlice[string](account.Roles)
	user.Department = account.Department
	user.Organization = account.Organization
	user.Position = account.Position
	user.Active = account.Active
	user.HashedPassword = account.HashedPassword

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Get(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetActive toggles an account. Deactivating keeps every booking and
// approval row intact; the user just cannot sign in anymore.
func (s *UserService) SetActive(id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
