package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"command-api/db"
	"command-api/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both stores must satisfy the same contract.
func repositoryFactories() map[string]func(t *testing.T) CommandRepository {
	return map[string]func(t *testing.T) CommandRepository{
		"memory": func(t *testing.T) CommandRepository {
			return NewCommandMemRepository()
		},
		"gorm-sqlite": func(t *testing.T) CommandRepository {
			database, err := db.OpenSQLite(":memory:", false)
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close() })
			return NewCommandGormRepository(database)
		},
	}
}

func sample(n int) *entities.Command {
	return &entities.Command{
		HowTo:       fmt.Sprintf("Do something %d", n),
		Platform:    "Some platform",
		CommandLine: fmt.Sprintf("some command %d", n),
	}
}

func TestCommandRepositoryContract(t *testing.T) {
	ctx := context.Background()

	for name, newRepo := range repositoryFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("empty store lists nothing", func(t *testing.T) {
				repo := newRepo(t)
				cmds, err := repo.GetAll(ctx)
				require.NoError(t, err)
				assert.NotNil(t, cmds)
				assert.Empty(t, cmds)
			})

			t.Run("create assigns increasing ids", func(t *testing.T) {
				repo := newRepo(t)
				first, second := sample(1), sample(2)
				require.NoError(t, repo.Create(ctx, first))
				require.NoError(t, repo.Create(ctx, second))

				assert.Equal(t, uint(1), first.ID)
				assert.Equal(t, uint(2), second.ID)

				cmds, err := repo.GetAll(ctx)
				require.NoError(t, err)
				require.Len(t, cmds, 2)
				assert.Equal(t, *first, cmds[0])
				assert.Equal(t, *second, cmds[1])
			})

			t.Run("get unknown id", func(t *testing.T) {
				repo := newRepo(t)
				_, err := repo.GetByID(ctx, 42)
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("update overwrites only the target", func(t *testing.T) {
				repo := newRepo(t)
				first, second := sample(1), sample(2)
				require.NoError(t, repo.Create(ctx, first))
				require.NoError(t, repo.Create(ctx, second))

				changed := *first
				changed.HowTo = "UPDATED"
				require.NoError(t, repo.Update(ctx, &changed))

				got, err := repo.GetByID(ctx, first.ID)
				require.NoError(t, err)
				assert.Equal(t, "UPDATED", got.HowTo)

				other, err := repo.GetByID(ctx, second.ID)
				require.NoError(t, err)
				assert.Equal(t, *second, *other)
			})

			t.Run("update with unchanged values succeeds", func(t *testing.T) {
				repo := newRepo(t)
				cmd := sample(1)
				require.NoError(t, repo.Create(ctx, cmd))
				assert.NoError(t, repo.Update(ctx, cmd))
			})

			t.Run("update unknown id", func(t *testing.T) {
				repo := newRepo(t)
				cmd := sample(1)
				cmd.ID = 9
				assert.ErrorIs(t, repo.Update(ctx, cmd), ErrNotFound)

				cmds, err := repo.GetAll(ctx)
				require.NoError(t, err)
				assert.Empty(t, cmds)
			})

			t.Run("delete removes exactly one", func(t *testing.T) {
				repo := newRepo(t)
				first, second := sample(1), sample(2)
				require.NoError(t, repo.Create(ctx, first))
				require.NoError(t, repo.Create(ctx, second))

				require.NoError(t, repo.Delete(ctx, first.ID))
				assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)

				cmds, err := repo.GetAll(ctx)
				require.NoError(t, err)
				require.Len(t, cmds, 1)
				assert.Equal(t, second.ID, cmds[0].ID)
			})

			t.Run("ids are not reused after delete", func(t *testing.T) {
				repo := newRepo(t)
				first, second := sample(1), sample(2)
				require.NoError(t, repo.Create(ctx, first))
				require.NoError(t, repo.Create(ctx, second))
				require.NoError(t, repo.Delete(ctx, second.ID))

				third := sample(3)
				require.NoError(t, repo.Create(ctx, third))
				assert.Greater(t, third.ID, second.ID)
			})

			t.Run("concurrent creates get distinct ids", func(t *testing.T) {
				repo := newRepo(t)
				const n = 20
				ids := make(chan uint, n)
				var wg sync.WaitGroup
				for i := 0; i < n; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						cmd := sample(i)
						if assert.NoError(t, repo.Create(ctx, cmd)) {
							ids <- cmd.ID
						}
					}(i)
				}
				wg.Wait()
				close(ids)

				seen := make(map[uint]bool)
				for id := range ids {
					assert.False(t, seen[id], "id %d assigned twice", id)
					seen[id] = true
				}
				assert.Len(t, seen, n)
			})
		})
	}
}

func TestCommandMemRepositoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewCommandMemRepository()

	cmd := sample(1)
	require.NoError(t, repo.Create(ctx, cmd))
	cmd.HowTo = "mutated after create"

	got, err := repo.GetByID(ctx, cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, "Do something 1", got.HowTo)

	got.HowTo = "mutated after get"
	again, err := repo.GetByID(ctx, cmd.ID)
	require.NoError(t, err)
	assert.Equal(t, "Do something 1", again.HowTo)
}
