package handlers

import (
	"context"
	"net/http"

	"socialapi/middleware"
	"socialapi/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.auth.Register(ctx, req)
	if err != nil {
		respondError(c, "Register", err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "You just got registered!",
		"userId":  user.ID.Hex(),
		"success": true,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	token, _, err := h.auth.Login(ctx, req)
	if err != nil {
		respondError(c, "Login", err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "You login successfully",
		"jwtToken": token,
		"success":  true,
	})
}

// DemoVerify echoes the claims of the authenticated caller.
func (h *Handler) DemoVerify(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Invalid Token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "welcome to profile page",
		"loginUserId": claims,
		"success":     true,
	})
}
