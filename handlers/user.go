package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"socialapi/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		respondError(c, "ListUsers", err, "Failed to fetch all users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All Users", "allUsers": users, "success": true})
}

// ListUserNames returns only the fields needed for mentions and search.
func (h *Handler) ListUserNames(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	users, err := h.store.ListUserSummaries(ctx)
	if err != nil {
		respondError(c, "ListUserNames", err, "Failed to fetch all users with userName")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All Users", "allUsers": users, "success": true})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	user, err := h.store.FindUserByID(ctx, userID)
	if err != nil {
		respondError(c, "GetUser", err, "Failed to fetch single user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Found a single user", "singleUser": user, "success": true})
}

// UpdateUser accepts JSON or multipart. Only profile fields can change; the
// password and reference sets are not editable here.
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var update models.ProfileUpdate
	if err := c.ShouldBind(&update); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	if _, err := h.store.FindUserByID(ctx, userID); err != nil {
		respondError(c, "UpdateUser", err, "user can't get update")
		return
	}

	picURL, ok := h.uploadImage(ctx, c, "displayPic")
	if !ok {
		return
	}
	if picURL != "" {
		update.DisplayPic = &picURL
	}

	user, err := h.store.UpdateUserProfile(ctx, userID, update)
	if err != nil {
		respondError(c, "UpdateUser", err, "user can't get update")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated", "updatedUser": user, "success": true})
}

// ToggleFollow makes :userId follow :followerId, or unfollow if it already does.
func (h *Handler) ToggleFollow(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "followerId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	following, err := h.social.ToggleFollow(ctx, userID, targetID)
	if err != nil {
		respondError(c, "ToggleFollow", err, "Follower doesn't exist")
		return
	}

	message := "Unfollowed user"
	if following {
		message = "Followed user"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "following": following, "success": true})
}

func (h *Handler) GetProfileData(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	profile, err := h.profiles.LoadProfile(ctx, userID)
	if err != nil {
		respondError(c, "GetProfileData", err, "cannot find data")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Found data", "profileData": profile, "success": true})
}
