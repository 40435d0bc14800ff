package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"secret-agents-service/internal/app/middleware"
	"secret-agents-service/internal/domain/models"
	"secret-agents-service/internal/domain/services"
	"secret-agents-service/internal/domain/services/container"
	"secret-agents-service/internal/error/code"
	"secret-agents-service/internal/error/response"
	Logger "secret-agents-service/pkg/logger"
)

// 提示消息
const (
	msgAgentCreated       = "Agent successfully added to the database"
	msgAgentCreateFailed  = "Failed to add the agent"
	msgAgentUpdated       = "Agent dossier successfully updated"
	msgAgentUpdateFailed  = "Failed to update the dossier"
	msgAgentDeleted       = "Agent dossier successfully deleted"
	msgAgentDeleteFailed  = "Failed to delete the agent"
	msgDatabaseWiped      = "!!! DATABASE DESTROYED !!!"
	msgDatabaseWipeFailed = "Failed to wipe the database"
	msgListFailed         = "Failed to load the agent list"
	msgInvalidLevel       = "Invalid access level"
	msgLevelNotFound      = "The specified access level does not exist"
)

// InterfaceAgentController 定义特工档案控制器接口
type InterfaceAgentController interface {
	ListAgents()
	ShowAddAgent()
	AddAgent()
	ViewAgent()
	ShowEditAgent()
	EditAgent()
	DeleteAgent()
	EmergencyWipe()
}

// AgentController 处理特工档案相关的请求
type AgentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAgentController 创建一个新的特工档案控制器
func NewAgentController(ctx *gin.Context, container *container.ServiceContainer) *AgentController {
	return &AgentController{
		Ctx:       ctx,
		Container: container,
	}
}

func (c *AgentController) agentService() services.InterfaceAgentService {
	return c.Container.GetService("agent").(services.InterfaceAgentService)
}

func (c *AgentController) accessLevelService() services.InterfaceAccessLevelService {
	return c.Container.GetService("access_level").(services.InterfaceAccessLevelService)
}

func (c *AgentController) validationService() services.InterfaceValidationService {
	return c.Container.GetService("validation").(services.InterfaceValidationService)
}

// ListAgents 特工列表，支持代号搜索和访问级别过滤
func (c *AgentController) ListAgents() {
	search := strings.TrimSpace(c.Ctx.Query("search"))
	levelRaw := c.Ctx.Query("level")

	data := gin.H{
		"title":  "Agents",
		"search": search,
		"level":  levelRaw,
	}

	agents, levels, err := c.loadList(search, levelRaw)
	if err != nil {
		Logger.Error("加载特工列表失败: %v", err)
		middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgListFailed)
		agents, levels = []models.Agent{}, []models.AccessLevel{}
	}

	data["agents"] = agents
	data["levels"] = levels
	renderPage(c.Ctx, http.StatusOK, "agents_list.html", data)
}

func (c *AgentController) loadList(search, levelRaw string) ([]models.Agent, []models.AccessLevel, error) {
	ctx := c.Ctx.Request.Context()
	filter := services.AgentFilter{Search: search}

	levels, err := c.accessLevelService().GetAllAccessLevels(ctx)
	if err != nil {
		return nil, nil, err
	}

	if levelRaw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(levelRaw), 10, 64)
		if err != nil {
			middleware.AddNotice(c.Ctx, middleware.NoticeWarning, msgInvalidLevel)
		} else {
			exists := false
			if id > 0 {
				if exists, err = c.accessLevelService().AccessLevelExists(ctx, uint(id)); err != nil {
					return nil, nil, err
				}
			}
			if exists {
				levelID := uint(id)
				filter.LevelID = &levelID
			} else {
				middleware.AddNotice(c.Ctx, middleware.NoticeWarning, msgLevelNotFound)
			}
		}
	}

	agents, err := c.agentService().GetAllAgents(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return agents, levels, nil
}

// ShowAddAgent 新建特工表单
func (c *AgentController) ShowAddAgent() {
	c.renderAddForm(http.StatusOK, services.AgentForm{}, nil)
}

// AddAgent 提交新建特工
func (c *AgentController) AddAgent() {
	ctx := c.Ctx.Request.Context()

	var form services.AgentForm
	if err := c.Ctx.ShouldBind(&form); err != nil {
		response.BadRequest(c.Ctx, code.ErrValidation, "")
		return
	}

	errs, err := c.validationService().ValidateAgent(ctx, form, nil)
	if err != nil {
		Logger.Error("校验特工档案失败: %v", err)
		middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgAgentCreateFailed)
		c.renderAddForm(http.StatusOK, form, nil)
		return
	}
	if len(errs) > 0 {
		c.renderAddForm(http.StatusOK, form, errs)
		return
	}

	agent := &models.Agent{}
	err = form.Apply(agent)
	if err == nil {
		err = c.agentService().CreateAgent(ctx, agent)
	}
	if err != nil {
		Logger.Error("创建特工失败: %v", err)
		middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgAgentCreateFailed)
		c.renderAddForm(http.StatusOK, form, nil)
		return
	}

	Logger.Info("新特工已录入: id=%d codename=%s", agent.ID, agent.Codename)
	middleware.AddNotice(c.Ctx, middleware.NoticeSuccess, msgAgentCreated)
	c.Ctx.Redirect(http.StatusFound, "/")
}

// ViewAgent 查看特工档案
func (c *AgentController) ViewAgent() {
	agent, ok := c.findAgent()
	if !ok {
		return
	}

	renderPage(c.Ctx, http.StatusOK, "view_agent.html", gin.H{
		"title": agent.Codename,
		"agent": agent,
	})
}

// ShowEditAgent 编辑表单，预填当前档案
func (c *AgentController) ShowEditAgent() {
	agent, ok := c.findAgent()
	if !ok {
		return
	}
	c.renderEditForm(http.StatusOK, agent, services.FormFromAgent(agent), nil)
}

// EditAgent 提交档案修改
func (c *AgentController) EditAgent() {
	ctx := c.Ctx.Request.Context()

	agent, ok := c.findAgent()
	if !ok {
		return
	}

	var form services.AgentForm
	if err := c.Ctx.ShouldBind(&form); err != nil {
		response.BadRequest(c.Ctx, code.ErrValidation, "")
		return
	}

	errs, err := c.validationService().ValidateAgent(ctx, form, &agent.ID)
	if err != nil {
		Logger.Error("校验特工档案失败: id=%d err=%v", agent.ID, err)
		middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgAgentUpdateFailed)
		c.renderEditForm(http.StatusOK, agent, form, nil)
		return
	}
	if len(errs) > 0 {
		c.renderEditForm(http.StatusOK, agent, form, errs)
		return
	}

	if _, err := c.agentService().UpdateAgent(ctx, agent.ID, form); err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			response.NotFound(c.Ctx, "")
			return
		}
		Logger.Error("更新特工档案失败: id=%d err=%v", agent.ID, err)
		middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgAgentUpdateFailed)
		c.renderEditForm(http.StatusOK, agent, form, nil)
		return
	}

	middleware.AddNotice(c.Ctx, middleware.NoticeSuccess, msgAgentUpdated)
	c.Ctx.Redirect(http.StatusFound, "/")
}

// DeleteAgent 删除单个特工
func (c *AgentController) DeleteAgent() {
	agent, ok := c.findAgent()
	if !ok {
		return
	}

	if err := c.agentService().DeleteAgent(c.Ctx.Request.Context(), agent.ID); err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			response.NotFound(c.Ctx, "")
			return
		}
		Logger.Error("删除特工失败: id=%d err=%v", agent.ID, err)
		middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgAgentDeleteFailed)
		c.Ctx.Redirect(http.StatusFound, "/")
		return
	}

	Logger.Info("特工档案已删除: id=%d codename=%s", agent.ID, agent.Codename)
	middleware.AddNotice(c.Ctx, middleware.NoticeSuccess, msgAgentDeleted)
	c.Ctx.Redirect(http.StatusFound, "/")
}

// EmergencyWipe 删除全部特工，访问级别保留
func (c *AgentController) EmergencyWipe() {
	deleted, err := c.agentService().DeleteAllAgents(c.Ctx.Request.Context())
	if err != nil {
		Logger.Error("紧急清除失败: %v", err)
		middleware.AddNotice(c.Ctx, middleware.NoticeWarning, msgDatabaseWipeFailed)
		c.Ctx.Redirect(http.StatusFound, "/")
		return
	}

	Logger.Warning("紧急清除已执行: 删除 %d 条特工档案, client=%s", deleted, c.Ctx.ClientIP())
	middleware.AddNotice(c.Ctx, middleware.NoticeDanger, msgDatabaseWiped)
	c.Ctx.Redirect(http.StatusFound, "/")
}

// findAgent 按路径ID查找特工，不存在时已写出 404 页面
func (c *AgentController) findAgent() (*models.Agent, bool) {
	id, ok := parseID(c.Ctx)
	if !ok {
		response.NotFound(c.Ctx, "")
		return nil, false
	}

	agent, err := c.agentService().GetAgentByID(c.Ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			response.NotFound(c.Ctx, "")
			return nil, false
		}
		Logger.Error("查询特工失败: id=%d err=%v", id, err)
		response.ErrorPage(c.Ctx, code.ErrDatabase, "")
		return nil, false
	}
	return agent, true
}

// loadLevels 加载表单下拉框所需的访问级别，失败时返回空列表
func (c *AgentController) loadLevels() []models.AccessLevel {
	levels, err := c.accessLevelService().GetAllAccessLevels(c.Ctx.Request.Context())
	if err != nil {
		Logger.Error("加载访问级别失败: %v", err)
		return []models.AccessLevel{}
	}
	return levels
}

func (c *AgentController) renderAddForm(status int, form services.AgentForm, errs services.ValidationErrors) {
	renderPage(c.Ctx, status, "add_agent.html", gin.H{
		"title":        "Recruit agent",
		"action":       "/add",
		"submit_label": "Add agent",
		"cancel_url":   "/",
		"levels":       c.loadLevels(),
		"form_data":    form.Values(),
		"errors":       code.FieldMessages(errs),
	})
}

func (c *AgentController) renderEditForm(status int, agent *models.Agent, form services.AgentForm, errs services.ValidationErrors) {
	id := strconv.FormatUint(uint64(agent.ID), 10)
	renderPage(c.Ctx, status, "edit_agent.html", gin.H{
		"title":        "Edit " + agent.Codename,
		"agent":        agent,
		"action":       "/edit/" + id,
		"submit_label": "Save changes",
		"cancel_url":   "/agent/" + id,
		"levels":       c.loadLevels(),
		"form_data":    form.Values(),
		"errors":       code.FieldMessages(errs),
	})
}

// HandleAgentFunc 返回一个处理特工档案请求的函数
func HandleAgentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAgentController(ctx, container)

		switch method {
		case "listAgents":
			controller.ListAgents()
		case "showAddAgent":
			controller.ShowAddAgent()
		case "addAgent":
			controller.AddAgent()
		case "viewAgent":
			controller.ViewAgent()
		case "showEditAgent":
			controller.ShowEditAgent()
		case "editAgent":
			controller.EditAgent()
		case "deleteAgent":
			controller.DeleteAgent()
		case "emergencyWipe":
			controller.EmergencyWipe()
		default:
			response.BadRequest(ctx, code.ErrValidation, "无效的方法")
		}
	}
}
