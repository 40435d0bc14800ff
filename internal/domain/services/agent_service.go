package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"secret-agents-service/internal/domain/models"
)

// ErrAgentNotFound 特工不存在
var ErrAgentNotFound = errors.New("agent not found")

// 允许做唯一性检查的列
var uniqueAgentFields = map[string]struct{}{
	"codename":       {},
	"email":          {},
	"contact_number": {},
}

// AgentForm 表单提交的原始字段值
type AgentForm struct {
	Codename      string `form:"codename"`
	Email         string `form:"email"`
	ContactNumber string `form:"contact_number"`
	AccessLevelID string `form:"access_level_id"`
}

// FormFromAgent 用已有记录填充表单，空联系电话显示为空字符串
func FormFromAgent(agent *models.Agent) AgentForm {
	return AgentForm{
		Codename:      agent.Codename,
		Email:         agent.Email,
		ContactNumber: agent.Contact(),
		AccessLevelID: strconv.FormatUint(uint64(agent.AccessLevelID), 10),
	}
}

// Values 表单值，用于重新渲染
func (f AgentForm) Values() map[string]string {
	return map[string]string{
		"codename":        f.Codename,
		"email":           f.Email,
		"contact_number":  f.ContactNumber,
		"access_level_id": f.AccessLevelID,
	}
}

// Apply 将去除空白后的值写入记录；表单必须已通过校验
func (f AgentForm) Apply(agent *models.Agent) error {
	levelID, err := strconv.ParseInt(strings.TrimSpace(f.AccessLevelID), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid access level id %q: %w", f.AccessLevelID, err)
	}
	if levelID <= 0 {
		return fmt.Errorf("invalid access level id %q", f.AccessLevelID)
	}

	agent.Codename = strings.TrimSpace(f.Codename)
	agent.Email = strings.TrimSpace(f.Email)
	agent.AccessLevelID = uint(levelID)
	agent.ContactNumber = nil
	if contact := strings.TrimSpace(f.ContactNumber); contact != "" {
		agent.ContactNumber = &contact
	}
	return nil
}

// AgentFilter 列表查询条件
type AgentFilter struct {
	Search  string
	LevelID *uint
}

// InterfaceAgentService defines the agent service interface
type InterfaceAgentService interface {
	GetAllAgents(ctx context.Context, filter AgentFilter) ([]models.Agent, error)
	GetAgentByID(ctx context.Context, id uint) (*models.Agent, error)
	CreateAgent(ctx context.Context, agent *models.Agent) error
	UpdateAgent(ctx context.Context, id uint, form AgentForm) (*models.Agent, error)
	DeleteAgent(ctx context.Context, id uint) error
	DeleteAllAgents(ctx context.Context) (int64, error)
	ExistsByField(ctx context.Context, field, value string, excludeID *uint) (bool, error)
}

// AgentService 提供特工档案相关的服务
type AgentService struct {
	DB *gorm.DB
}

// NewAgentService 创建特工档案服务
func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{DB: db}
}

// 1 GetAllAgents 获取特工列表，支持代号模糊搜索和访问级别过滤
func (s *AgentService) GetAllAgents(ctx context.Context, filter AgentFilter) ([]models.Agent, error) {
	var agents []models.Agent

	query := s.DB.WithContext(ctx).Model(&models.Agent{}).Preload("AccessLevel")
	if filter.Search != "" {
		query = query.Where("codename LIKE ? ESCAPE '!'", "%"+escapeLike(filter.Search)+"%")
	}
	if filter.LevelID != nil {
		query = query.Where("access_level_id = ?", *filter.LevelID)
	}

	if err := query.Order("id").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// 2 GetAgentByID 根据ID获取特工
func (s *AgentService) GetAgentByID(ctx context.Context, id uint) (*models.Agent, error) {
	return findAgent(s.DB.WithContext(ctx), id)
}

// 3 CreateAgent 创建新特工
func (s *AgentService) CreateAgent(ctx context.Context, agent *models.Agent) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("AccessLevel").Create(agent).Error
	})
}

// 4 UpdateAgent 更新特工档案
func (s *AgentService) UpdateAgent(ctx context.Context, id uint, form AgentForm) (*models.Agent, error) {
	var updated *models.Agent
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agent, err := findAgent(tx, id)
		if err != nil {
			return err
		}
		if err := form.Apply(agent); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"codename":        agent.Codename,
			"email":           agent.Email,
			"contact_number":  agent.ContactNumber,
			"access_level_id": agent.AccessLevelID,
		}
		if err := tx.Model(&models.Agent{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		updated, err = findAgent(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// 5 DeleteAgent 删除特工
func (s *AgentService) DeleteAgent(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Agent{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAgentNotFound
		}
		return nil
	})
}

// 6 DeleteAllAgents 删除全部特工，访问级别不受影响
func (s *AgentService) DeleteAllAgents(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Agent{})
		deleted = result.RowsAffected
		return result.Error
	})
	return deleted, err
}

// 7 ExistsByField 判断是否已有其他记录使用该唯一字段值，excludeID 为正在编辑的记录
func (s *AgentService) ExistsByField(ctx context.Context, field, value string, excludeID *uint) (bool, error) {
	if _, ok := uniqueAgentFields[field]; !ok {
		return false, fmt.Errorf("field %q is not a unique agent field", field)
	}

	query := s.DB.WithContext(ctx).Model(&models.Agent{}).Where(field+" = ?", value)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func findAgent(db *gorm.DB, id uint) (*models.Agent, error) {
	var agent models.Agent
	if err := db.Preload("AccessLevel").First(&agent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return &agent, nil
}

// escapeLike 以 ! 作为转义符转义 LIKE 通配符
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
