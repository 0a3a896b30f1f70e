package user

import "minetrack/internal/domain/user"

type loginInput struct {
	Body LoginRequest
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginOutput struct {
	Body AuthResponse
}

type registerInput struct {
	Body RegisterRequest
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerOutput struct {
	Body AuthResponse
}

// AuthResponse — ответ обоих эндпоинтов аутентификации: либо токен и
// пользователь, либо текст ошибки.
type AuthResponse struct {
	Token string        `json:"token,omitempty"`
	User  *user.Account `json:"user,omitempty"`
	Error string        `json:"error,omitempty"`
}
