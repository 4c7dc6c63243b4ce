// internal/domain/auth/dto.go
package auth

// LoginRequest is bound from the login form.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is bound from the registration form.
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Result is what an identity backend resolves with on a successful exchange.
type Result struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
