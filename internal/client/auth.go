package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

// AuthResult is a token and the user it was issued for. Token is empty when
// sign-up does not log the user in.
type AuthResult struct {
	Token string
	User  entity.User
}

// SignIn posts a form-encoded username/password to /login?role=.
func (c *Client) SignIn(ctx context.Context, email, password string, role entity.Role) (AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, entity.ErrMissingLogin
	}

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	query := url.Values{}
	if role != "" {
		query.Set("role", string(role))
	}

	var payload authDTO
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/login",
		query:       query,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &payload)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign in: %w", err)
	}
	if payload.AccessToken == "" {
		return AuthResult{}, remoteError(http.StatusOK, "no token received from login", nil)
	}

	res := AuthResult{Token: payload.AccessToken}
	if payload.User != nil {
		res.User = payload.User.toEntity()
	}
	if res.User.Role == "" {
		res.User.Role = role
	}
	return res, nil
}

func (c *Client) SignUp(ctx context.Context, req entity.SignUpRequest) (AuthResult, error) {
	if err := req.Validate(); err != nil {
		return AuthResult{}, err
	}

	var payload authDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/sign-up", req, &payload); err != nil {
		return AuthResult{}, fmt.Errorf("sign up: %w", err)
	}

	res := AuthResult{Token: payload.AccessToken}
	if payload.User != nil {
		res.User = payload.User.toEntity()
	} else {
		res.User = payload.userDTO.toEntity()
	}
	return res, nil
}
