package usecases

import (
	"context"
	"errors"
	"fmt"

	"command-api/entities"
	"command-api/repositories"
)

// CommandsUseCase implements the command resource operations on top of a
// CommandRepository. It keeps no state between calls.
type CommandsUseCase struct {
	repo repositories.CommandRepository
}

func NewCommandsUseCase(r repositories.CommandRepository) *CommandsUseCase {
	return &CommandsUseCase{repo: r}
}

// List returns every stored command, or an empty slice.
func (uc *CommandsUseCase) List(ctx context.Context) ([]entities.Command, error) {
	cmds, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list commands", Err: err}
	}
	if cmds == nil {
		cmds = []entities.Command{}
	}
	return cmds, nil
}

// GetByID returns the command with the given id or ErrNotFound.
func (uc *CommandsUseCase) GetByID(ctx context.Context, id uint) (*entities.Command, error) {
	cmd, err := uc.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get command", Err: err}
	}
	return cmd, nil
}

// Create validates the candidate and stores it under a fresh id. Any id on
// the candidate is ignored.
func (uc *CommandsUseCase) Create(ctx context.Context, candidate entities.Command) (*entities.Command, error) {
	candidate.ID = 0
	if err := validate(&candidate); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, &candidate); err != nil {
		return nil, &StoreError{Op: "create command", Err: err}
	}
	return &candidate, nil
}

// Replace overwrites the text fields of the command with the given id.
// An id that does not resolve is a ValidationError, not ErrNotFound.
func (uc *CommandsUseCase) Replace(ctx context.Context, id uint, candidate entities.Command) error {
	existing, err := uc.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return unresolvedTarget(id)
	}
	if err != nil {
		return &StoreError{Op: "get command", Err: err}
	}

	if candidate.ID != 0 && candidate.ID != id {
		return &ValidationError{
			Reason: fmt.Sprintf("body id %d does not match path id %d", candidate.ID, id),
			Fields: []string{"id"},
		}
	}
	if err := validate(&candidate); err != nil {
		return err
	}

	existing.Apply(candidate)
	err = uc.repo.Update(ctx, existing)
	if errors.Is(err, repositories.ErrNotFound) {
		// deleted between lookup and write
		return unresolvedTarget(id)
	}
	if err != nil {
		return &StoreError{Op: "update command", Err: err}
	}
	return nil
}

// Delete removes the command with the given id or returns ErrNotFound.
func (uc *CommandsUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}

	err := uc.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "delete command", Err: err}
	}
	return nil
}

func validate(cmd *entities.Command) error {
	err := cmd.Validate()
	if err == nil {
		return nil
	}
	var fe *entities.FieldError
	if errors.As(err, &fe) {
		return &ValidationError{Reason: err.Error(), Fields: fe.Fields, Err: err}
	}
	return &ValidationError{Reason: err.Error(), Err: err}
}

func unresolvedTarget(id uint) error {
	return &ValidationError{
		Reason: fmt.Sprintf("command %d does not exist", id),
		Fields: []string{"id"},
	}
}
