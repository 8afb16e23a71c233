package controllers

import (
	"net/http"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type AuthController struct{ Auth *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Auth: s} }

// POST /api/register
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterIn
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.Auth.Register(c.Request.Context(), req)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, services.NewUserView(user))
}

// POST /api/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, user, err := a.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{
		"access_token": token,
		"user":         services.NewUserView(user),
	})
}

// GET /api/me
func (a *AuthController) Me(c *gin.Context) {
	resp.OK(c, services.NewUserView(utils.CurrentUser(c)))
}

// POST /api/forgot-password
func (a *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := a.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Password reset instructions sent to your email")
}
