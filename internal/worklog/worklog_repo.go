package worklog

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=worklog_repo.go -destination=mock/worklog_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *WorkLog) error
	FindByID(ctx context.Context, id string) (*WorkLog, error)
	FindByIDForUpdate(ctx context.Context, id string) (*WorkLog, error)
	FindAll(ctx context.Context, filter ListFilter) ([]WorkLog, error)
	FindForReview(ctx context.Context, status Status) ([]ReviewRow, error)
	Update(ctx context.Context, w *WorkLog) error
	Delete(ctx context.Context, id string) error
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

// conn runs gorm on the service transaction when one is attached.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, w *WorkLog) error {
	return r.conn(ctx).Create(w).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*WorkLog, error) {
	var w WorkLog
	err := r.conn(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*WorkLog, error) {
	var w WorkLog
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]WorkLog, error) {
	var logs []WorkLog
	db := r.conn(ctx).Model(&WorkLog{})
	if filter.OwnerID != "" {
		db = db.Where("user_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.From != "" {
		db = db.Where("work_date >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("work_date <= ?", filter.To)
	}
	err := db.
		Order("work_date DESC").
		Order("start_time DESC").
		Find(&logs).Error
	return logs, err
}

func (r *repository) FindForReview(ctx context.Context, status Status) ([]ReviewRow, error) {
	var rows []ReviewRow
	err := r.conn(ctx).
		Table("work_logs").
		Select("work_logs.*, COALESCE(profiles.name, '') AS owner_name, COALESCE(profiles.email, '') AS owner_email").
		Joins("LEFT JOIN profiles ON profiles.id = work_logs.user_id").
		Where("work_logs.status = ?", status).
		Order("work_logs.work_date DESC").
		Order("work_logs.start_time DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, w *WorkLog) error {
	return r.conn(ctx).Save(w).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&WorkLog{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
