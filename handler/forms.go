package handler

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/AnTengye/mediconnect/form"
	"github.com/AnTengye/mediconnect/middleware"
	"github.com/AnTengye/mediconnect/model"
	"github.com/AnTengye/mediconnect/pkg/logger"
	"github.com/AnTengye/mediconnect/service"
	"github.com/gin-gonic/gin"
)

// Resender asks the account API for a fresh activation code
type Resender interface {
	ResendActivation(ctx context.Context, email string) error
}

type FormHandler struct {
	store    *service.FormStore
	resender Resender
}

func NewFormHandler(store *service.FormStore, resender Resender) *FormHandler {
	return &FormHandler{store: store, resender: resender}
}

type createFormRequest struct {
	Kind   string      `json:"kind" binding:"required"`
	Role   string      `json:"role"`
	Values form.Values `json:"values"`
}

type setFieldRequest struct {
	Value string `json:"value"`
}

type loadFormRequest struct {
	Values form.Values `json:"values" binding:"required"`
}

type formResponse struct {
	ID    string     `json:"id"`
	Kind  form.Kind  `json:"kind"`
	Role  model.Role `json:"role,omitempty"`
	State form.State `json:"state"`
}

type submitResponse struct {
	formResponse
	Outcome form.Outcome `json:"outcome"`
	// Next is the page the client should navigate to after a settled submit
	Next  string `json:"next,omitempty"`
	Error string `json:"error,omitempty"`
}

func newFormResponse(sess *service.FormSession, state form.State) formResponse {
	return formResponse{
		ID:    sess.ID,
		Kind:  sess.Engine.Kind(),
		Role:  sess.Engine.Role(),
		State: state,
	}
}

// Create opens a new form session. The role comes from the body or, failing
// that, from the caller's role header.
func (h *FormHandler) Create(c *gin.Context) {
	var req createFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	kind, ok := form.ParseKind(req.Kind)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidParam("kind", req.Kind).Error()})
		return
	}

	var role model.Role
	if req.Role != "" {
		if role, ok = model.ParseRole(req.Role); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidParam("role", req.Role).Error()})
			return
		}
	} else {
		role, _ = middleware.GetRole(c)
	}

	values := req.Values.Clone()
	if values == nil {
		values = form.Values{}
	}
	switch kind {
	case form.KindSettings:
		if role == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role is required for settings"})
			return
		}
	case form.KindRegistration:
		if role != "" && values[form.FieldRole] == "" {
			values[form.FieldRole] = role.Upper()
		}
	case form.KindActivation:
		role = ""
		values[form.FieldToken] = form.NormalizeToken(values[form.FieldToken])
	}

	sess := h.store.Create(kind, role, values)
	ctx := logger.WithValue(c.Request.Context(), logger.FormIDKey, sess.ID)
	c.Request = c.Request.WithContext(ctx)
	logger.Info(ctx, "form session created", "kind", kind, "form_role", role)

	c.JSON(http.StatusCreated, newFormResponse(sess, sess.Engine.Snapshot()))
}

// Get returns the current form state
func (h *FormHandler) Get(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}
	c.JSON(http.StatusOK, newFormResponse(sess, sess.Engine.Snapshot()))
}

// SetField stores one raw field value
func (h *FormHandler) SetField(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	name := c.Param("name")
	if !acceptsField(sess.Engine, name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown field: " + name})
		return
	}

	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	value := req.Value
	if name == form.FieldToken {
		value = form.NormalizeToken(value)
	}
	c.JSON(http.StatusOK, newFormResponse(sess, sess.Engine.Set(name, value)))
}

// Load replaces every value, as when a stored profile is fetched
func (h *FormHandler) Load(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	var req loadFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	values := form.Values{}
	for name, v := range req.Values {
		if acceptsField(sess.Engine, name) {
			values[name] = v
		}
	}
	c.JSON(http.StatusOK, newFormResponse(sess, sess.Engine.Load(values)))
}

// Submit validates and forwards the form to the account API
func (h *FormHandler) Submit(c *gin.Context) {
	sess := h.session(c)
	if sess == nil {
		return
	}

	outcome, err := sess.Engine.Submit(c.Request.Context())
	if errors.Is(err, form.ErrDisposed) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}

	resp := submitResponse{
		formResponse: newFormResponse(sess, sess.Engine.Snapshot()),
		Outcome:      outcome,
	}
	status := http.StatusOK
	switch outcome {
	case form.OutcomeSettled:
		resp.Next = nextPage(sess.Engine.Kind())
	case form.OutcomeRejected:
		status = http.StatusUnprocessableEntity
	case form.OutcomeIgnored:
		status = http.StatusConflict
		resp.Error = "A submission is already in progress"
	case form.OutcomeFailed:
		status = http.StatusBadGateway
		var subErr *form.SubmissionError
		if errors.As(err, &subErr) {
			resp.Error = subErr.Message
		}
		c.Error(err)
	}
	c.JSON(status, resp)
}

// Delete discards a form session
func (h *FormHandler) Delete(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type resendRequest struct {
	Email string `json:"email"`
}

// ResendActivation requests a new activation code
func (h *FormHandler) ResendActivation(c *gin.Context) {
	var req resendRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	if err := h.resender.ResendActivation(c.Request.Context(), strings.TrimSpace(req.Email)); err != nil {
		logger.Warn(c.Request.Context(), "resend activation failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to resend code. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activation code resent"})
}

// session looks up the :id form and tags the request context with it. It
// writes a 404 and returns nil when the form does not exist.
func (h *FormHandler) session(c *gin.Context) *service.FormSession {
	id := c.Param("id")
	sess := h.store.Get(id)
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
		return nil
	}
	c.Request = c.Request.WithContext(logger.WithValue(c.Request.Context(), logger.FormIDKey, id))
	return sess
}

// acceptsField reports whether name belongs to the engine's form. Sign-up
// forms pick their role in-form, so either role's fields are accepted.
func acceptsField(e *form.Engine, name string) bool {
	if e.Kind() != form.KindRegistration && e.Role() != "" {
		return slices.Contains(form.Fields(e.Kind(), e.Role()), name)
	}
	return slices.Contains(form.Fields(e.Kind(), model.RoleDoctor), name) ||
		slices.Contains(form.Fields(e.Kind(), model.RolePatient), name)
}

func nextPage(kind form.Kind) string {
	switch kind {
	case form.KindRegistration:
		return "/activate"
	case form.KindActivation:
		return "/login"
	}
	return ""
}
