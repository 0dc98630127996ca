package dto

// LoginRequest 馆员登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest 刷新Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 登出,refresh_token可选
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
