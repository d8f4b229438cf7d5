package repositories

import (
	"errors"
	"time"

	"github.com/goodwinhq/household-staff-be/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepo covers identity rows. The one-time initial credit grant happens
// here, at creation, and nowhere else.
type UserRepo interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByGoogleID(googleID string) (*models.User, error)
	EmailExists(email string) (bool, error)
	UpdateLastLogin(id string) error
	UpdateRefreshToken(id string, token string, expiresAt time.Time) error
	RevokeRefreshToken(id string) error
	GetByRefreshToken(token string) (*models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

// Create inserts a new user. A zero balance means unset and receives the
// initial grant; nonzero balances are stored as given.
func (r *userRepo) Create(user *models.User) error {
	if user.Credits == 0 {
		user.Credits = models.InitialCreditGrant
	}
	return r.db.Create(user).Error
}

func (r *userRepo) GetByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("google_id = ?", googleID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateLastLogin(id string) error {
	now := time.Now()
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", &now).Error
}

func (r *userRepo) UpdateRefreshToken(id string, token string, expiresAt time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token":            token,
		"refresh_token_expires_at": &expiresAt,
	}).Error
}

func (r *userRepo) RevokeRefreshToken(id string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token":            "",
		"refresh_token_expires_at": nil,
	}).Error
}

func (r *userRepo) GetByRefreshToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("refresh_token = ? AND refresh_token_expires_at > ?", token, time.Now()).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// parseUserID rejects malformed ids before they reach SQL. An id that cannot
// parse cannot name an existing user.
func parseUserID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrUserNotFound
	}
	return parsed, nil
}
