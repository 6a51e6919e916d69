package app

import (
	"context"

	"pharmacy-hr/internal/messaging/kafka"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/rbac"
	"pharmacy-hr/internal/worklog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate creates or updates every table and upserts the default role permissions.
func Migrate(ctx context.Context, gormDB *gorm.DB) error {
	logger := zap.L().Named("app.migrate")

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&profile.Profile{},
		&profile.Credential{},
		&worklog.WorkLog{},
		&kafka.OutboxRecord{},
		&rbac.RolePermissionRow{},
	); err != nil {
		return err
	}
	logger.Info("schema migrated")

	if err := rbac.NewRepository(gormDB).UpsertRolePermissions(ctx, rbac.DefaultPermissions); err != nil {
		return err
	}
	logger.Info("default role permissions seeded", zap.Int("count", len(rbac.DefaultPermissions)))
	return nil
}
