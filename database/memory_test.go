package database

import (
	"testing"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

func TestMemoryStoreSeedsAdmin(t *testing.T) {
	users := NewMemoryStore().Users()

	admin, err := users.FindByEmail(seedAdminEmail)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(seedAdminPassword)))
}

func TestMemoryUsersRejectDuplicateEmail(t *testing.T) {
	users := NewMemoryStore().Users()

	first := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: models.RoleDesigner}
	require.NoError(t, users.Add(first))

	dup := &models.User{Name: "Other", Email: "ana@example.com", PasswordHash: "y"}
	err := users.Add(dup)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestMemoryClientCRUD(t *testing.T) {
	clients := NewMemoryStore().Clients()

	client := &models.Client{Name: "Vera Holt", Email: "vera@example.com"}
	require.NoError(t, clients.Add(client))
	require.Equal(t, uint(1), client.ID)

	client.Notes = "prefers walnut"
	require.NoError(t, clients.Update(client))

	loaded, err := clients.FindByID(client.ID)
	require.NoError(t, err)
	require.Equal(t, "prefers walnut", loaded.Notes)

	require.NoError(t, clients.Delete(client.ID))
	_, err = clients.FindByID(client.ID)
	require.True(t, errs.IsNotFound(err))
}

func TestMemoryFindAllReturnsCopies(t *testing.T) {
	store := NewMemoryStore().Projects()
	require.NoError(t, store.Add(&models.Project{Name: "Loft"}))
	_, err := store.AddRoom(1, "Kitchen", "")
	require.NoError(t, err)

	// Mutating a listed project must not leak into the store
	listed := store.FindAll()
	listed[0].Rooms[0].Name = "scribbled"

	loaded, err := store.FindByID(1)
	require.NoError(t, err)
	require.Equal(t, "Kitchen", loaded.Rooms[0].Name)
}

func TestMemoryFindSimilarOrdersByDistance(t *testing.T) {
	estimates := NewMemoryStore().Estimates()

	add := func(brief string, vec []float32) {
		require.NoError(t, estimates.Add(&models.Estimate{
			Brief:     brief,
			Embedding: pgvector.NewVector(vec),
		}))
	}
	add("kitchen refresh", []float32{1, 0, 0})
	add("full kitchen remodel", []float32{0.9, 0.1, 0})
	add("garden landscaping", []float32{0, 0, 1})

	found, err := estimates.FindSimilar(pgvector.NewVector([]float32{1, 0, 0}), 2)
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "kitchen refresh", found[0].Brief)
	require.Equal(t, "full kitchen remodel", found[1].Brief)
}

func TestMemoryFindSimilarSkipsMismatchedDimensions(t *testing.T) {
	estimates := NewMemoryStore().Estimates()

	require.NoError(t, estimates.Add(&models.Estimate{Brief: "no embedding"}))
	require.NoError(t, estimates.Add(&models.Estimate{
		Brief:     "embedded",
		Embedding: pgvector.NewVector([]float32{0.5, 0.5}),
	}))

	found, err := estimates.FindSimilar(pgvector.NewVector([]float32{1, 0}), 5)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "embedded", found[0].Brief)
}
