package repositories

import (
	"command-api/entities"
	"context"
	"errors"
)

// ErrNotFound is returned when no command has the requested id.
var ErrNotFound = errors.New("record not found")

// CommandRepository is the persistence port for commands. Create assigns the
// id; GetByID, Update and Delete return ErrNotFound for unknown ids. Any other
// error means the store could not complete the operation.
type CommandRepository interface {
	Create(ctx context.Context, cmd *entities.Command) error
	GetByID(ctx context.Context, id uint) (*entities.Command, error)
	GetAll(ctx context.Context) ([]entities.Command, error)
	Update(ctx context.Context, cmd *entities.Command) error
	Delete(ctx context.Context, id uint) error
}
