package user

import (
	"context"
	"errors"
	"strings"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, q AdminListQuery) ([]User, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	return r.write(r.db.WithContext(ctx).Create(u))
}

func (r *gormRepository) Update(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	return r.write(r.db.WithContext(ctx).Save(u))
}

// write maps unique-index violations on a user row to a 409.
func (r *gormRepository) write(res *gorm.DB) error {
	if res.Error != nil && database.IsUniqueViolation(res.Error) {
		return conflictFor(res.Error)
	}
	return res.Error
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email = ?", NormalizeEmail(email))
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *gormRepository) findOne(ctx context.Context, cond string, arg any) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound.WithDetails("User not found.")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) List(ctx context.Context, q AdminListQuery) ([]User, int64, error) {
	page, limit := common.NormalizePage(q.Page, q.Limit)

	filtered := func(db *gorm.DB) *gorm.DB {
		if q.Role != "" {
			db = db.Where("role = ?", q.Role)
		}
		if q.IsVerified != nil {
			db = db.Where("is_verified = ?", *q.IsVerified)
		}
		if q.IsApproved != nil {
			db = db.Where("is_approved = ?", *q.IsApproved)
		}
		if s := strings.TrimSpace(q.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			db = db.Where("(LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?)", like, like)
		}
		return db
	}

	var (
		users []User
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&User{}).Scopes(filtered).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(filtered).
			Order("created_at DESC").
			Offset(common.Offset(page, limit)).Limit(limit).
			Find(&users).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func conflictFor(err error) *common.APIError {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "whatsapp"):
		return common.ErrConflict.WithDetails("This WhatsApp number is already registered.")
	case strings.Contains(msg, "phone"):
		return common.ErrConflict.WithDetails("This phone number is already registered.")
	case strings.Contains(msg, "email"):
		return common.ErrConflict.WithDetails("User with this email already exists.")
	default:
		return common.ErrConflict.WithDetails("User with this email or phone number already exists.")
	}
}
