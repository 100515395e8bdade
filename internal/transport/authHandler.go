package transport

import (
	"errors"
	"net/http"
	"strings"

	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/ds124wfegd/eventhive/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users  repository.UserRepository
	tokens *middleware.TokenManager
}

func NewAuthHandler(users repository.UserRepository, tokens *middleware.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Login takes a form-encoded username (the email) and password. With ?role=
// the account must have that role.
func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		writeError(c, entity.ErrMissingLogin)
		return
	}

	user, hash, err := h.users.GetCredentials(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(c, entity.ErrInvalidCredentials)
			return
		}
		writeError(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		writeError(c, entity.ErrInvalidCredentials)
		return
	}

	if raw := c.Query("role"); raw != "" {
		role, ok := entity.ParseRole(raw)
		if !ok {
			badRequest(c, errors.New("unknown role"))
			return
		}
		if role != user.Role {
			c.JSON(http.StatusForbidden, gin.H{"detail": "account cannot sign in as " + string(role)})
			return
		}
	}

	h.respondWithToken(c, http.StatusOK, user)
}

type signUpRequest struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// SignUp creates a student account and signs it in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role := entity.RoleStudent
	if req.Role != "" {
		parsed, ok := entity.ParseRole(req.Role)
		if !ok {
			badRequest(c, errors.New("unknown role"))
			return
		}
		if parsed == entity.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"detail": "admin accounts cannot be self-registered"})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	name := req.Name
	if name == "" {
		name = req.FullName
	}
	user := &entity.User{Name: name, Email: req.Email, Role: role}
	if err := h.users.Create(c.Request.Context(), user, hash); err != nil {
		writeError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *entity.User) {
	token, err := h.tokens.Issue(*user)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	})
}
