package profile

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=profile_repo.go -destination=mock/profile_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Profile, error)
	Update(ctx context.Context, p *Profile) error

	CreateCredential(ctx context.Context, c *Credential) error
	FindCredential(ctx context.Context, profileID string) (*Credential, error)
	FindCredentialByInviteHash(ctx context.Context, hash string) (*Credential, error)
	UpdateCredential(ctx context.Context, c *Credential) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).First(&p, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	return &p, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Profile, error) {
	var profiles []Profile
	q := r.conn(ctx).Model(&Profile{})
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Email != "" {
		q = q.Where("email ILIKE ?", "%"+filter.Email+"%")
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("role ASC").Order("email ASC").Find(&profiles).Error
	return profiles, err
}

func (r *repository) Update(ctx context.Context, p *Profile) error {
	return r.conn(ctx).Save(p).Error
}

func (r *repository) CreateCredential(ctx context.Context, c *Credential) error {
	return r.conn(ctx).Create(c).Error
}

func (r *repository) FindCredential(ctx context.Context, profileID string) (*Credential, error) {
	var c Credential
	err := r.conn(ctx).First(&c, "profile_id = ?", profileID).Error
	return &c, err
}

func (r *repository) FindCredentialByInviteHash(ctx context.Context, hash string) (*Credential, error) {
	var c Credential
	err := r.conn(ctx).First(&c, "invite_token_hash = ?", hash).Error
	return &c, err
}

func (r *repository) UpdateCredential(ctx context.Context, c *Credential) error {
	return r.conn(ctx).Save(c).Error
}
