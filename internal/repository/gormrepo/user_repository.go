package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/repository"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a gorm-backed repository.UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	m := newUserModel(user)
	m.ID = 0
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translateError(err)
	}
	user.ID = m.ID
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":  user.Username,
		"password":  user.PasswordHash,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      string(user.Role),
		"enabled":   user.Enabled,
	})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, "username = ?", username).Error; err != nil {
		return nil, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	result := make([]domain.User, 0, len(models))
	for i := range models {
		result = append(result, *models[i].toDomain())
	}
	return result, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *userRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where(cond, arg).Limit(1).Count(&n).Error; err != nil {
		return false, translateError(err)
	}
	return n > 0, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Count(&n).Error; err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *userRepository) References(ctx context.Context, id int64) (repository.UserReferences, error) {
	var refs repository.UserReferences
	db := r.db.WithContext(ctx)
	if err := db.Model(&ticketModel{}).Where("created_by_id = ?", id).Count(&refs.CreatedTickets).Error; err != nil {
		return refs, translateError(err)
	}
	if err := db.Model(&ticketModel{}).Where("assigned_to_id = ?", id).Count(&refs.AssignedTickets).Error; err != nil {
		return refs, translateError(err)
	}
	if err := db.Model(&commentModel{}).Where("user_id = ?", id).Count(&refs.Comments).Error; err != nil {
		return refs, translateError(err)
	}
	return refs, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ticketModel{}).Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return translateError(err)
		}
		res := tx.Delete(&userModel{}, "id = ?", id)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
