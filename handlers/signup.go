package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lexbook/models"
	"lexbook/services/user"
	"lexbook/services/wizard"
)

// SignupHandler exposes the step-gated signup flow over HTTP.
type SignupHandler struct {
	Service user.SignupService
	Logger  *zap.Logger
}

func NewSignupHandler(svc user.SignupService, logger *zap.Logger) *SignupHandler {
	return &SignupHandler{Service: svc, Logger: logger}
}

// StartSignup opens a new signup session.
func (h *SignupHandler) StartSignup(c *gin.Context) {
	session, err := h.Service.StartSignup(c.Request.Context())
	if err != nil {
		h.signupError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UpdateSignup merges submitted fields into the session's wizard data.
func (h *SignupHandler) UpdateSignup(c *gin.Context) {
	var input models.WizardData
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	session, err := h.Service.UpdateSignup(c.Request.Context(), c.Param("sessionID"), input)
	if err != nil {
		h.signupError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AdvanceSignup moves to the next step if the current step validates.
func (h *SignupHandler) AdvanceSignup(c *gin.Context) {
	session, err := h.Service.AdvanceSignup(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.signupError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RetreatSignup moves back one step.
func (h *SignupHandler) RetreatSignup(c *gin.Context) {
	session, err := h.Service.RetreatSignup(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.signupError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// UploadDocument accepts a multipart file for the document step. The form
// field "key" names the wizard data key the stored URL lands under.
func (h *SignupHandler) UploadDocument(c *gin.Context) {
	key := c.PostForm("key")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file", "details": err.Error()})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file", "details": err.Error()})
		return
	}
	defer f.Close()

	session, err := h.Service.UploadDocument(c.Request.Context(), c.Param("sessionID"), key, f)
	if err != nil {
		h.signupError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CompleteSignup finalizes the flow and creates the account.
func (h *SignupHandler) CompleteSignup(c *gin.Context) {
	u, err := h.Service.CompleteSignup(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.signupError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *SignupHandler) signupError(c *gin.Context, err error) {
	var ve *wizard.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": ve.Reason,
			"step":  ve.Step,
			"name":  ve.Name,
		})
		return
	}
	h.Logger.Warn("signup request failed", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
