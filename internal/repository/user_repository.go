package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdfchat/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

const (
	signupLockName       = "pdfchat.user_signup"
	signupLockTimeoutSec = 3
)

// CreateWithRolePolicy counts existing users and creates the new user,
// assigning the role returned by assignRole(count). A plain transactional
// COUNT is not enough to serialize concurrent first signups: under
// REPEATABLE READ both would read zero and both would insert as admin. The
// count and insert therefore run under a MySQL named lock, held on a pinned
// connection until after the transaction commits.
func (r *UserRepository) CreateWithRolePolicy(user *model.User, assignRole func(existing int64) model.Role) error {
	return r.db.Connection(func(conn *gorm.DB) error {
		var acquired int
		if err := conn.Raw("SELECT GET_LOCK(?, ?)", signupLockName, signupLockTimeoutSec).Scan(&acquired).Error; err != nil {
			return fmt.Errorf("acquire signup lock failed: %w", err)
		}
		if acquired != 1 {
			return fmt.Errorf("acquire signup lock timed out")
		}
		defer func() {
			_ = conn.Exec("DO RELEASE_LOCK(?)", signupLockName).Error
		}()

		return conn.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
				return fmt.Errorf("count users failed: %w", err)
			}
			user.Role = assignRole(count)
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user failed: %w", err)
			}
			return nil
		})
	})
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}
