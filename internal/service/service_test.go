package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/models"
	"github.com/Dhruv1249/expense-server/internal/storage/sqlite"
)

// setupStore creates a temp-file sqlite store for service tests.
func setupStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createUser(t *testing.T, store *sqlite.SQLiteStore, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "x",
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	return user
}

// createGroup persists a group with the given membership. The first member
// is the creator and gets the admin role unless a role is supplied.
func createGroup(t *testing.T, store *sqlite.SQLiteStore, creator *models.User, members map[*models.User]models.Role) *models.Group {
	t.Helper()

	group := &models.Group{
		Name:      "Flat 4B",
		Currency:  "INR",
		CreatorID: creator.ID,
		Members:   []models.Member{{UserID: creator.ID, Role: models.RoleAdmin}},
	}
	for user, role := range members {
		group.Members = append(group.Members, models.Member{UserID: user.ID, Role: role})
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}
	return group
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
