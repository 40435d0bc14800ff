package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "Success",
	ErrUnknown:          "Unknown error",
	ErrValidation:       "Request validation failed",
	ErrCSRFTokenInvalid: "The CSRF token is missing or invalid",
	ErrTooManyRequests:  "Too many requests, please try again later",

	// 特工档案相关错误码
	ErrAgentNotFound:       "Agent not found",
	ErrAccessLevelNotFound: "Access level not found",

	// 数据库相关错误码
	ErrDatabase:            "Database error",
	ErrDatabaseUnavailable: "Database unavailable",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrValidation:       StatusBadRequest,
	ErrCSRFTokenInvalid: StatusBadRequest,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 特工档案相关错误码
	ErrAgentNotFound:       StatusNotFound,
	ErrAccessLevelNotFound: StatusNotFound,

	// 数据库相关错误码
	ErrDatabase:            StatusInternalServerError,
	ErrDatabaseUnavailable: StatusServiceUnavailable,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
