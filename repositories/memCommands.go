package repositories

import (
	"context"
	"sort"
	"sync"

	"command-api/entities"
)

type commandMemRepository struct {
	mu       sync.RWMutex
	commands map[uint]entities.Command
	lastID   uint
}

// NewCommandMemRepository returns a process-local store. Ids come from a
// counter and are never reused, even after a delete.
func NewCommandMemRepository() CommandRepository {
	return &commandMemRepository{
		commands: make(map[uint]entities.Command),
	}
}

func (r *commandMemRepository) Create(_ context.Context, cmd *entities.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	cmd.ID = r.lastID
	r.commands[cmd.ID] = *cmd
	return nil
}

func (r *commandMemRepository) GetByID(_ context.Context, id uint) (*entities.Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &cmd, nil
}

func (r *commandMemRepository) GetAll(_ context.Context) ([]entities.Command, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]entities.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].ID < cmds[j].ID })
	return cmds, nil
}

func (r *commandMemRepository) Update(_ context.Context, cmd *entities.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[cmd.ID]; !ok {
		return ErrNotFound
	}
	r.commands[cmd.ID] = *cmd
	return nil
}

func (r *commandMemRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.commands[id]; !ok {
		return ErrNotFound
	}
	delete(r.commands, id)
	return nil
}
