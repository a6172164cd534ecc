package models

import (
	"github.com/m04kA/IH-CoordinationService/internal/domain"
	"github.com/m04kA/IH-CoordinationService/internal/integrations/healthapi"
)

// LoginRequest запрос на вход
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// UserResponse данные пользователя
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
}

// LoginResponse ответ на успешный вход
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}

// FromAccountResponse конвертирует ответ API в DTO сервиса
func FromAccountResponse(account *healthapi.AccountResponse) *LoginResponse {
	resp := &LoginResponse{Token: account.AccessToken}
	if account.User != nil {
		resp.User = &UserResponse{
			ID:       account.User.ID,
			Email:    account.User.Email,
			FullName: account.User.FullName,
			Mobile:   account.User.Mobile,
		}
	}
	return resp
}

// FromDomainUser конвертирует domain пользователя в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Mobile:   u.Mobile,
	}
}
