package service

import (
	"context"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
)

// INutritionService defines the interface for barcode product lookups
type INutritionService interface {
	Lookup(ctx context.Context, barcode string) (*models.NutritionRecord, error)
}

// IChatService defines the interface for the AI assistant capability
type IChatService interface {
	Available() bool
	Reply(ctx context.Context, sessionID, message string) (string, error)
}
