package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"secret-agents-service/internal/domain/models"
	Logger "secret-agents-service/pkg/logger"
)

// AccessLevelsCacheKey 访问级别列表的缓存键
const AccessLevelsCacheKey = "access_levels:all"

// InterfaceAccessLevelService defines the access level service interface
type InterfaceAccessLevelService interface {
	GetAllAccessLevels(ctx context.Context) ([]models.AccessLevel, error)
	AccessLevelExists(ctx context.Context, id uint) (bool, error)
}

// AccessLevelService 提供访问级别相关的服务
type AccessLevelService struct {
	DB    *gorm.DB
	Cache InterfaceCacheService // 可为 nil，表示不使用缓存
	TTL   time.Duration
}

// NewAccessLevelService 创建访问级别服务
func NewAccessLevelService(db *gorm.DB, cache InterfaceCacheService, ttl time.Duration) *AccessLevelService {
	return &AccessLevelService{
		DB:    db,
		Cache: cache,
		TTL:   ttl,
	}
}

// 1 GetAllAccessLevels 获取全部访问级别，按ID排序
func (s *AccessLevelService) GetAllAccessLevels(ctx context.Context) ([]models.AccessLevel, error) {
	var levels []models.AccessLevel

	if s.Cache != nil {
		err := s.Cache.Get(ctx, AccessLevelsCacheKey, &levels)
		if err == nil {
			return levels, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			// 缓存故障不影响读取，直接回退到数据库
			Logger.Warning("读取访问级别缓存失败: %v", err)
		}
	}

	if err := s.DB.WithContext(ctx).Order("id").Find(&levels).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, AccessLevelsCacheKey, levels, s.TTL); err != nil {
			Logger.Warning("写入访问级别缓存失败: %v", err)
		}
	}
	return levels, nil
}

// 2 AccessLevelExists 判断访问级别是否存在
func (s *AccessLevelService) AccessLevelExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.AccessLevel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// 3 InvalidateCache 清除访问级别缓存
// 访问级别在运行期间不变，仅供运维手动修改级别表后和测试使用，不属于 InterfaceAccessLevelService
func (s *AccessLevelService) InvalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, AccessLevelsCacheKey); err != nil {
		Logger.Warning("清除访问级别缓存失败: %v", err)
	}
}
