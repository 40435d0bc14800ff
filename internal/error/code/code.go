package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusServiceUnavailable - 503: 服务不可用.
	StatusServiceUnavailable = 503
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrCSRFTokenInvalid - 400: 防伪令牌缺失或无效.
	ErrCSRFTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 特工档案相关错误码 (101xxx).
const (
	// ErrAgentNotFound - 404: 特工不存在.
	ErrAgentNotFound int = iota + 101000
	// ErrAccessLevelNotFound - 404: 访问级别不存在.
	ErrAccessLevelNotFound
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrDatabaseUnavailable - 503: 数据库不可用.
	ErrDatabaseUnavailable
)
