package dto

// ── 认证模块 DTO ──

// SignupRequest 注册请求（必填项与密码长度在 Service 层校验）
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}
