package healthapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Login выполняет вход по email и паролю.
// 401 означает неверные креденшалы, 403 - неподтвержденный email
// (аккаунт существует, но требуется верификация).
// Токен в клиент не устанавливается - это решение Session Store.
func (c *Client) Login(ctx context.Context, email, password string) (*AccountResponse, error) {
	c.log.Info("Login: authenticating email=%s", email)

	var account AccountResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/Accounts", "/Accounts/Login", LoginRequest{
		Email:    email,
		Password: password,
	}, &account)

	if err != nil {
		switch status {
		case http.StatusUnauthorized:
			c.log.Warn("Login: invalid credentials for email=%s", email)
			return nil, ErrInvalidCredentials
		case http.StatusForbidden:
			c.log.Warn("Login: email not confirmed for email=%s", email)
			return nil, ErrEmailNotConfirmed
		default:
			c.log.Error("Login: request failed for email=%s: %v", email, err)
			return nil, err
		}
	}

	if account.AccessToken == "" && account.User == nil {
		return nil, fmt.Errorf("%w: login response has neither token nor user", ErrInvalidResponse)
	}

	c.log.Info("Login: authenticated email=%s", email)
	return &account, nil
}

// Refresh обновляет access-токен. Креденшалы передаются cookie,
// установленным бекендом при логине (cookie jar клиента).
func (c *Client) Refresh(ctx context.Context) (*AccountResponse, error) {
	var account AccountResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/Accounts", "/Accounts/Refresh", nil, &account)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.log.Warn("Refresh: refresh token rejected")
		} else {
			c.log.Error("Refresh: request failed: %v", err)
		}
		return nil, err
	}

	if account.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh response has no token", ErrInvalidResponse)
	}

	return &account, nil
}

// ResendConfirmation повторно отправляет письмо подтверждения email.
// Используется процессом верификации после ErrEmailNotConfirmed.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	_, err := c.doJSON(ctx, http.MethodPost, "/Accounts", "/Accounts/ResendConfirmation", map[string]string{
		"email": email,
	}, nil)
	if err != nil {
		c.log.Error("ResendConfirmation: request failed for email=%s: %v", email, err)
		return err
	}

	c.log.Info("ResendConfirmation: confirmation email sent to email=%s", email)
	return nil
}
