package code

import (
	"fmt"
	"strings"
)

// ValidationKind 字段校验失败的类型
type ValidationKind string

const (
	KindEmpty      ValidationKind = "empty"
	KindTooShort   ValidationKind = "too_short"
	KindTooLong    ValidationKind = "too_long"
	KindBadFormat  ValidationKind = "bad_format"
	KindDuplicate  ValidationKind = "duplicate"
	KindNotInteger ValidationKind = "not_integer"
	KindNotFound   ValidationKind = "not_found"
)

// FieldError 单个字段的校验错误，Params 携带 min/max 等参数
type FieldError struct {
	Kind   ValidationKind `json:"kind"`
	Params map[string]int `json:"params,omitempty"`
}

// 字段名 -> 错误类型 -> 消息模板
var fieldMessageMap = map[string]map[ValidationKind]string{
	"codename": {
		KindEmpty:     "Codename cannot be empty!",
		KindTooShort:  "At least %[1]d characters are required!",
		KindTooLong:   "No more than %[2]d characters allowed!",
		KindDuplicate: "This codename is already taken!",
	},
	"email": {
		KindEmpty:     "Email is not entered!",
		KindTooLong:   "Email must be at most %[2]d characters!",
		KindBadFormat: "Invalid email format!",
		KindDuplicate: "This email is already in use!",
	},
	"contact_number": {
		KindBadFormat: "Invalid phone number! Expected +7 followed by 10 digits.",
		KindDuplicate: "This phone number is already in use!",
	},
	"access_level_id": {
		KindEmpty:      "Access level is not selected!",
		KindNotInteger: "Invalid access level!",
		KindNotFound:   "The specified access level does not exist!",
	},
}

var kindMessageMap = map[ValidationKind]string{
	KindEmpty:      "This field is required.",
	KindTooShort:   "Value is too short.",
	KindTooLong:    "Value is too long.",
	KindBadFormat:  "Value has an invalid format.",
	KindDuplicate:  "Value is already in use.",
	KindNotInteger: "Value must be an integer.",
	KindNotFound:   "Referenced record does not exist.",
}

// FieldMessage 将字段校验错误转换为可读消息
func FieldMessage(field string, fe FieldError) string {
	tmpl, ok := fieldMessageMap[field][fe.Kind]
	if !ok {
		if msg, ok := kindMessageMap[fe.Kind]; ok {
			return msg
		}
		return string(fe.Kind)
	}
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, fe.Params["min"], fe.Params["max"])
}

// FieldMessages 批量转换，供模板渲染使用
func FieldMessages(errs map[string]FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for field, fe := range errs {
		out[field] = FieldMessage(field, fe)
	}
	return out
}
