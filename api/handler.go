package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/esteticaio/api/auth"
	"github.com/esteticaio/api/auth/authctx"
	apperrors "github.com/esteticaio/api/errors"
	"github.com/esteticaio/api/server"
	"github.com/esteticaio/api/server/middleware"
	"github.com/esteticaio/api/users"
	"github.com/esteticaio/api/validation"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Bem-vindo à API da Estética.IO!"

// Login issues tokens. *auth.LoginService implements it.
type Login interface {
	Login(ctx context.Context, email, secret string) (*auth.Token, error)
}

// Users manages accounts. *users.Service implements it.
type Users interface {
	Register(ctx context.Context, req users.CreateRequest) (*users.User, error)
	Get(ctx context.Context, id int64) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Delete(ctx context.Context, actor *auth.Identity, id int64) error
}

// Handler serves the API routes.
type Handler struct {
	login Login
	users Users
}

// NewHandler creates a Handler.
func NewHandler(login Login, users Users) *Handler {
	return &Handler{login: login, users: users}
}

// Register mounts the routes on engine. resolver authenticates bearer tokens.
func Register(engine *gin.Engine, h *Handler, resolver middleware.Resolver) {
	engine.GET("/", h.Welcome)
	engine.POST("/token", h.Token)

	authed := engine.Group("/users", middleware.Authenticate(resolver))
	authed.GET("/me", h.Me)

	admin := authed.Group("", middleware.RequireRole(auth.RoleAdmin))
	admin.GET("", h.ListUsers)
	admin.POST("", h.CreateUser)
	admin.GET("/:id", h.GetUser)
	admin.DELETE("/:id", h.DeleteUser)
}

// Welcome handles GET /.
func (h *Handler) Welcome(c *gin.Context) {
	server.RespondOK(c, gin.H{"message": WelcomeMessage})
}

// tokenRequest accepts the OAuth2 password form (username, password) or
// the same fields as JSON; "email" is accepted as an alias of username.
type tokenRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Token handles POST /token.
func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "expected username and password"))
		return
	}
	if req.Username == "" {
		req.Username = req.Email
	}

	v := validation.New().
		Required("username", req.Username).
		Required("password", req.Password)
	if appErr := v.Validate(); appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	tok, err := h.login.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	server.RespondOK(c, tok)
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	id, err := authctx.GetOrError(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, id)
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondList(c, list)
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(c *gin.Context) {
	var req users.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "malformed JSON"))
		return
	}
	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.Header("Location", "/users/"+strconv.FormatInt(u.ID, 10))
	server.RespondCreated(c, u)
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	id, err := validation.ParseID("id", c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, u)
}

// DeleteUser handles DELETE /users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := validation.ParseID("id", c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	actor := authctx.MustGet(c.Request.Context())
	if err := h.users.Delete(c.Request.Context(), actor, id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
