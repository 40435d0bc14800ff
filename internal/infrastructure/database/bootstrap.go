package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"secret-agents-service/internal/domain/models"
	Logger "secret-agents-service/pkg/logger"
)

// Bootstrap 创建缺失的表并写入默认访问级别，可重复调用
func Bootstrap(ctx context.Context, db *gorm.DB) error {
	if err := autoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("自动迁移失败: %w", err)
	}
	if err := seedAccessLevels(ctx, db); err != nil {
		return fmt.Errorf("写入默认访问级别失败: %w", err)
	}
	return nil
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AccessLevel{},
		&models.Agent{},
	)
}

// seedAccessLevels 访问级别表为空时写入三条默认记录
func seedAccessLevels(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AccessLevel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		levels := make([]models.AccessLevel, 0, len(models.DefaultAccessLevels))
		for _, name := range models.DefaultAccessLevels {
			levels = append(levels, models.AccessLevel{Name: name})
		}
		if err := tx.Create(&levels).Error; err != nil {
			return err
		}

		Logger.Info("已写入默认访问级别: %v", models.DefaultAccessLevels)
		return nil
	})
}
