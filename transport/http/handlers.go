package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/facegate/core"
	"github.com/layer-3/facegate/service"
)

// VerifierHandlers contains the HTTP handlers of the verification service.
type VerifierHandlers struct {
	verifier *service.Verifier
}

// NewVerifierHandlers creates handlers over the given verifier.
func NewVerifierHandlers(verifier *service.Verifier) *VerifierHandlers {
	return &VerifierHandlers{verifier: verifier}
}

// readFace pulls the face attachment out of the multipart form.
func readFace(c *gin.Context) (core.Sample, bool) {
	file, header, err := c.Request.FormFile("face")
	if err != nil {
		return core.Sample{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		return core.Sample{}, false
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}

	return core.Sample{Data: data, MIME: mime}, true
}

// Signup handles POST /signup.
func (h *VerifierHandlers) Signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if username == "" || email == "" || password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "missing required fields"})
		return
	}

	face, ok := readFace(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Face processing error: cannot decode image"})
		return
	}

	token, err := h.verifier.Signup(c.Request.Context(), username, email, password, face)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateAccount):
			c.JSON(http.StatusConflict, gin.H{"detail": "Username or email already registered"})
		case errors.Is(err, service.ErrFaceUnreadable):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Face processing error: cannot decode image"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"access_token": token, "token_type": "bearer"})
}

// Signin handles POST /signin.
func (h *VerifierHandlers) Signin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	face, ok := readFace(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Face processing error: cannot decode image"})
		return
	}

	token, err := h.verifier.Signin(c.Request.Context(), username, password, face)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		case errors.Is(err, service.ErrFaceMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Face verification failed"})
		case errors.Is(err, service.ErrFaceUnreadable):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Face processing error: cannot decode image"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Authentication failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me handles GET /me.
func (h *VerifierHandlers) Me(c *gin.Context) {
	username, _ := c.Get("username")
	email, _ := c.Get("email")

	c.JSON(http.StatusOK, gin.H{
		"username": username,
		"email":    email,
	})
}

// Logout handles POST /logout. The bearer token is optional; logout is
// best effort and always reports success.
func (h *VerifierHandlers) Logout(c *gin.Context) {
	_ = h.verifier.Logout(c.Request.Context(), bearerToken(c))
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out"})
}

// VerifyCaptcha handles POST /verify-captcha.
func (h *VerifierHandlers) VerifyCaptcha(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": h.verifier.VerifyCaptcha(req.Token)})
}
