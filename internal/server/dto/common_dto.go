package dto

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"ordertracker"`
}

// ErrorResponse 边界校验失败响应
type ErrorResponse struct {
	Error string `json:"error" example:"user_name 格式无效"`
}
