package api

import (
	"context"
	"errors"

	"github.com/studioaurea/atelier-backend/models"
)

type keyType string

const (
	userIDKey keyType = "userID"
	roleKey   keyType = "role"
)

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxWithRole adds the caller's role to the context
func ctxWithRole(ctx context.Context, role models.UserRole) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// ctxGetUserID retrieves a user ID from the context
func ctxGetUserID(ctx context.Context) (uint, error) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return 0, errors.New("userID not found in context")
	}
	userID, ok := value.(uint)
	if !ok {
		return 0, errors.New("userID is not of type `uint`")
	}
	return userID, nil
}

// ctxGetRole retrieves the caller's role from the context
func ctxGetRole(ctx context.Context) (models.UserRole, error) {
	value := ctx.Value(roleKey)
	if value == nil {
		return "", errors.New("role not found in context")
	}
	role, ok := value.(models.UserRole)
	if !ok {
		return "", errors.New("role is not of type `models.UserRole`")
	}
	return role, nil
}
