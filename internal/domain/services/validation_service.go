package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"secret-agents-service/internal/error/code"
)

const (
	codenameMinLength = 3
	codenameMaxLength = 30
	emailMaxLength    = 255
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9\-.]+$`)
	contactPattern = regexp.MustCompile(`^\+7[0-9]{10}$`)
)

// ValidationErrors 字段名 -> 校验错误，空映射表示可以保存
type ValidationErrors map[string]code.FieldError

// UniqueFieldChecker 唯一字段查询
type UniqueFieldChecker interface {
	ExistsByField(ctx context.Context, field, value string, excludeID *uint) (bool, error)
}

// AccessLevelChecker 访问级别存在性查询
type AccessLevelChecker interface {
	AccessLevelExists(ctx context.Context, id uint) (bool, error)
}

// InterfaceValidationService defines the validation service interface
type InterfaceValidationService interface {
	ValidateAgent(ctx context.Context, form AgentForm, currentID *uint) (ValidationErrors, error)
}

// ValidationService 在写入前校验特工档案，只读不写
type ValidationService struct {
	Agents UniqueFieldChecker
	Levels AccessLevelChecker
}

// NewValidationService 创建校验服务
func NewValidationService(agents UniqueFieldChecker, levels AccessLevelChecker) *ValidationService {
	return &ValidationService{
		Agents: agents,
		Levels: levels,
	}
}

// ValidateAgent 校验全部字段；currentID 非空时唯一性检查排除该记录。
// 返回的 error 只表示存储读取失败。
func (s *ValidationService) ValidateAgent(ctx context.Context, form AgentForm, currentID *uint) (ValidationErrors, error) {
	errs := ValidationErrors{}

	checks := []func(context.Context, AgentForm, *uint, ValidationErrors) error{
		s.checkCodename,
		s.checkEmail,
		s.checkContactNumber,
		s.checkAccessLevel,
	}
	for _, check := range checks {
		if err := check(ctx, form, currentID, errs); err != nil {
			return nil, err
		}
	}
	return errs, nil
}

func (s *ValidationService) checkCodename(ctx context.Context, form AgentForm, currentID *uint, errs ValidationErrors) error {
	codename := strings.TrimSpace(form.Codename)
	length := utf8.RuneCountInString(codename)

	switch {
	case codename == "":
		errs["codename"] = code.FieldError{Kind: code.KindEmpty}
	case length < codenameMinLength:
		errs["codename"] = code.FieldError{Kind: code.KindTooShort, Params: map[string]int{"min": codenameMinLength}}
	case length > codenameMaxLength:
		errs["codename"] = code.FieldError{Kind: code.KindTooLong, Params: map[string]int{"max": codenameMaxLength}}
	default:
		return s.checkUnique(ctx, "codename", codename, currentID, errs)
	}
	return nil
}

func (s *ValidationService) checkEmail(ctx context.Context, form AgentForm, currentID *uint, errs ValidationErrors) error {
	email := strings.TrimSpace(form.Email)

	switch {
	case email == "":
		errs["email"] = code.FieldError{Kind: code.KindEmpty}
	case utf8.RuneCountInString(email) > emailMaxLength:
		errs["email"] = code.FieldError{Kind: code.KindTooLong, Params: map[string]int{"max": emailMaxLength}}
	case !emailPattern.MatchString(email):
		errs["email"] = code.FieldError{Kind: code.KindBadFormat}
	default:
		return s.checkUnique(ctx, "email", email, currentID, errs)
	}
	return nil
}

func (s *ValidationService) checkContactNumber(ctx context.Context, form AgentForm, currentID *uint, errs ValidationErrors) error {
	contact := strings.TrimSpace(form.ContactNumber)
	if contact == "" {
		return nil
	}
	if !contactPattern.MatchString(contact) {
		errs["contact_number"] = code.FieldError{Kind: code.KindBadFormat}
		return nil
	}
	return s.checkUnique(ctx, "contact_number", contact, currentID, errs)
}

func (s *ValidationService) checkAccessLevel(ctx context.Context, form AgentForm, _ *uint, errs ValidationErrors) error {
	raw := strings.TrimSpace(form.AccessLevelID)
	if raw == "" {
		errs["access_level_id"] = code.FieldError{Kind: code.KindEmpty}
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs["access_level_id"] = code.FieldError{Kind: code.KindNotInteger}
		return nil
	}
	if id <= 0 {
		errs["access_level_id"] = code.FieldError{Kind: code.KindNotFound}
		return nil
	}

	exists, err := s.Levels.AccessLevelExists(ctx, uint(id))
	if err != nil {
		return err
	}
	if !exists {
		errs["access_level_id"] = code.FieldError{Kind: code.KindNotFound}
	}
	return nil
}

func (s *ValidationService) checkUnique(ctx context.Context, field, value string, currentID *uint, errs ValidationErrors) error {
	exists, err := s.Agents.ExistsByField(ctx, field, value, currentID)
	if err != nil {
		return err
	}
	if exists {
		errs[field] = code.FieldError{Kind: code.KindDuplicate}
	}
	return nil
}
