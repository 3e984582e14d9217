package http

import "conduit/internal/identity/domain/services"

// RegisterRequest - тело POST /api/users.
type RegisterRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// LoginRequest - тело POST /api/users/login.
type LoginRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

// UserResponse - ответ с пользователем и его токеном.
type UserResponse struct {
	User UserBody `json:"user"`
}

// UserBody не содержит хэша пароля.
type UserBody struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(result *services.AuthResult) UserResponse {
	return UserResponse{User: UserBody{
		Email:    result.User.Email,
		Token:    result.Token,
		Username: result.User.Username,
		Bio:      result.User.Bio,
		Image:    result.User.Image,
	}}
}
