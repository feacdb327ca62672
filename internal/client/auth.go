package client

import (
	"context"
	"net/http"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
}

// AuthMessage is the status payload the auth endpoints reply with.
type AuthMessage struct {
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*AuthMessage, error) {
	var res AuthMessage
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthMessage, error) {
	var res AuthMessage
	body := map[string]string{"email": email, "otp": otp}
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify-reset-otp", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (*AuthMessage, error) {
	var res AuthMessage
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
