package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/tdobson/snowy-sub000/internal/domain"
	pkgerrors "github.com/tdobson/snowy-sub000/internal/pkg/errors"
	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, instanceID, userID uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, email string) (*types.User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, email string) (bool, error)
	UpdatePassword(ctx context.Context, tx *gorm.DB, instanceID, userID uuid.UUID, hash string) error
	List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, limit, offset int) ([]*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if len(users) == 0 {
		return []*types.User{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, instanceID, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, email string) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	err := transaction.WithContext(ctx).
		Where("instance_id = ? AND email = ?", instanceID, email).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("instance_id = ? AND email = ?", instanceID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, instanceID, userID uuid.UUID, hash string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("instance_id = ? AND user_id = ?", instanceID, userID).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}

func (ur *userRepo) List(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, limit, offset int) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if limit <= 0 {
		limit = 100
	}
	var results []*types.User
	err := transaction.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Order("email ASC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
