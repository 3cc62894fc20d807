package repositories

import (
	"context"
	"errors"

	"command-api/db"
	"command-api/entities"

	"gorm.io/gorm"
)

type commandGormRepository struct {
	db db.Database
}

func NewCommandGormRepository(database db.Database) CommandRepository {
	return &commandGormRepository{db: database}
}

func (r *commandGormRepository) Create(ctx context.Context, cmd *entities.Command) error {
	return r.db.GetDB().WithContext(ctx).Create(cmd).Error
}

func (r *commandGormRepository) GetByID(ctx context.Context, id uint) (*entities.Command, error) {
	var cmd entities.Command
	err := r.db.GetDB().WithContext(ctx).Where("id = ?", id).First(&cmd).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

func (r *commandGormRepository) GetAll(ctx context.Context) ([]entities.Command, error) {
	cmds := []entities.Command{}
	err := r.db.GetDB().WithContext(ctx).Order("id ASC").Find(&cmds).Error
	return cmds, err
}

func (r *commandGormRepository) Update(ctx context.Context, cmd *entities.Command) error {
	// Save would insert a missing row; only touch an existing one.
	res := r.db.GetDB().WithContext(ctx).Model(&entities.Command{}).Where("id = ?", cmd.ID).Updates(map[string]interface{}{
		"how_to":       cmd.HowTo,
		"platform":     cmd.Platform,
		"command_line": cmd.CommandLine,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *commandGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.GetDB().WithContext(ctx).Where("id = ?", id).Delete(&entities.Command{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
