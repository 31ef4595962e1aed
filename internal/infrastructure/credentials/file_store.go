// Package credentials implements the flat-file user registry. The file is
// read once at construction and again only on an explicit Reload — there is
// no live-reload guarantee.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// registryFile is the on-disk shape: users keyed by username.
type registryFile struct {
	Employees map[string]registryUser `json:"employees"`
}

type registryUser struct {
	EmployeeID   string    `json:"employee_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	DisplayName  string    `json:"display_name"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type FileStore struct {
	path string

	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewFileStore loads the registry file eagerly so a malformed file fails
// startup instead of the first login.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

var _ ports.CredentialStore = (*FileStore)(nil)

// Reload re-reads the registry file, replacing the in-memory snapshot.
func (s *FileStore) Reload(_ context.Context) error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read user registry: %w", err)
	}

	var reg registryFile
	if err := json.Unmarshal(raw, &reg); err != nil {
		return fmt.Errorf("parse user registry: %w", err)
	}

	users := make(map[string]*domain.User, len(reg.Employees))
	for username, ru := range reg.Employees {
		role := ru.Role
		if role != domain.RoleAdmin {
			role = domain.RoleEmployee
		}
		users[username] = &domain.User{
			Username:     username,
			EmployeeID:   ru.EmployeeID,
			Email:        ru.Email,
			DisplayName:  ru.DisplayName,
			Department:   ru.Department,
			Position:     ru.Position,
			Role:         role,
			PasswordHash: ru.PasswordHash,
			Active:       ru.Active,
			CreatedAt:    ru.CreatedAt,
		}
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Authenticate verifies the password against the stored bcrypt hash.
// Inactive or unknown users fail identically with ErrInvalidCredentials so
// the response does not leak which usernames exist.
func (s *FileStore) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()

	if !ok || !user.Active {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	clone := *user
	return &clone, nil
}

func (s *FileStore) Lookup(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrUnknownUser
	}
	clone := *user
	return &clone, nil
}
