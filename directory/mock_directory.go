// Package directory abstracts the corporate directory the SRR system
// authenticates against. Production would talk to Active Directory; the
// mock here carries a fixed user set for development, optionally overridden
// by a JSON file.
package directory

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Account is a directory entry as the rest of the application sees it.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Roles          []string  `json:"roles"`
	Department     *string   `json:"department,omitempty"`
	Organization   *string   `json:"organization,omitempty"`
	Position       *string   `json:"position,omitempty"`
	Active         bool      `json:"active"`
	HashedPassword *string   `json:"hashed_password,omitempty"`
}

// Service is what the auth handler depends on.
type Service interface {
	Lookup(username string) (*Account, bool)
	Authenticate(username, password string) (*Account, bool)
	Accounts() []Account
}

type MockDirectory struct {
	accounts []Account
	debug    bool
}

// bcrypt of "password"; the shared credential of every default dev account.
const devPasswordHash = "$2a$12$gP633TPgpTxNY5mFYrmP1OEJFol.MHL63Njfewwr0VHeDFbgMf6CC"

func defaultAccounts() []Account {
	hash := devPasswordHash
	str := func(s string) *string { return &s }
	return []Account{
		{
			ID:             uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
			Username:       "admin",
			Email:          "admin@example.com",
			FullName:       "System Administrator",
			Roles:          []string{"admin", "user"},
			Department:     str("IT"),
			Organization:   str("City Hall"),
			Position:       str("System administrator"),
			Active:         true,
			HashedPassword: &hash,
		},
		{
			ID:             uuid.MustParse("550e8400-e29b-41d4-a716-446655440001"),
			Username:       "user",
			Email:          "user@example.com",
			FullName:       "Standard User",
			Roles:          []string{"user"},
			Department:     str("Culture"),
			Organization:   str("City Hall"),
			Position:       str("Administrative agent"),
			Active:         true,
			HashedPassword: &hash,
		},
		{
			ID:             uuid.MustParse("550e8400-e29b-41d4-a716-446655440002"),
			Username:       "manager",
			Email:          "manager@example.com",
			FullName:       "Resource Manager",
			Roles:          []string{"resource_manager", "user"},
			Department:     str("General Services"),
			Organization:   str("City Hall"),
			Position:       str("Logistics manager"),
			Active:         true,
			HashedPassword: &hash,
		},
		{
			ID:             uuid.MustParse("550e8400-e29b-41d4-a716-446655440003"),
			Username:       "inactive",
			Email:          "inactive@example.com",
			FullName:       "Disabled Account",
			Roles:          []string{"user"},
			Department:     str("Technical services"),
			Organization:   str("City Hall"),
			Position:       str("Technical agent"),
			Active:         false,
			HashedPassword: &hash,
		},
	}
}

// NewMock builds the mock directory. usersFile, when set and readable,
// replaces the default account set.
func NewMock(usersFile string, debug bool) *MockDirectory {
	accounts := defaultAccounts()

	if usersFile != "" {
		data, err := os.ReadFile(usersFile)
		if err != nil {
			log.Printf("Warning: could not read mock users file %s: %v, using defaults", usersFile, err)
		} else {
			var fromFile []Account
			if err := json.Unmarshal(data, &fromFile); err != nil {
				log.Printf("Warning: could not parse mock users file %s: %v, using defaults", usersFile, err)
			} else {
				log.Printf("Loaded %d mock directory accounts from %s", len(fromFile), usersFile)
				accounts = fromFile
			}
		}
	}

	return &MockDirectory{accounts: accounts, debug: debug}
}

func (d *MockDirectory) Lookup(username string) (*Account, bool) {
	for i := range d.accounts {
		if strings.EqualFold(d.accounts[i].Username, username) {
			account := d.accounts[i]
			return &account, true
		}
	}
	return nil, false
}

// Authenticate verifies the credentials of an active account. In debug mode
// the shared development password is accepted directly, mirroring how the
// real directory is bypassed in local environments.
func (d *MockDirectory) Authenticate(username, password string) (*Account, bool) {
	account, ok := d.Lookup(username)
	if !ok {
		log.Printf("Directory auth attempt for unknown user: %s", username)
		return nil, false
	}
	if !account.Active {
		log.Printf("Directory auth attempt for inactive account: %s", username)
		return nil, false
	}

	if d.debug && password == "password" {
		return account, true
	}

	if account.HashedPassword == nil {
		return nil, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.HashedPassword), []byte(password)); err != nil {
		return nil, false
	}
	return account, true
}

func (d *MockDirectory) Accounts() []Account {
	out := make([]Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}
