package user

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userauth/errors"
	"github.com/kbukum/userauth/server"
)

// Handler translates HTTP requests to Service calls.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles POST /register.
func (h *Handler) Register(c *gin.Context) {
	var in RegisterInput
	if !bind(c, &in) {
		return
	}
	res, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondMessage(c, res.Message)
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var in LoginInput
	if !bind(c, &in) {
		return
	}
	res, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, res)
}

// Get handles GET /user/:id.
func (h *Handler) Get(c *gin.Context) {
	pub, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"user": pub})
}

// List handles GET /users and GET /users/:page. The page segment is
// accepted for compatibility and does not paginate.
func (h *Handler) List(c *gin.Context) {
	users, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, gin.H{"users": users})
}

// Update handles PUT /update-user/:id.
func (h *Handler) Update(c *gin.Context) {
	var in UpdateInput
	if !bind(c, &in) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondMessage(c, "User updated successfully")
}

// bind decodes a JSON or form body into dst. An empty body leaves dst zero
// so the service reports the missing fields. A body cut off at the size
// limit gets the 413 envelope.
func bind(c *gin.Context, dst any) bool {
	err := c.ShouldBind(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		server.RespondWithError(c, apperrors.BodyTooLarge(tooLarge.Limit))
		return false
	}
	server.RespondWithError(c, apperrors.InvalidInput("malformed request body"))
	return false
}
