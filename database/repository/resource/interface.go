package resourceRepo

import (
	"context"
	"errors"

	"glowhub/models"
)

// ErrNotFound is returned when no resource has the requested id.
var ErrNotFound = errors.New("resource not found")

// ResourceRepository gives read access to salons and their settings.
type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context) ([]models.Resource, error)
}
