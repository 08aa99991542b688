package handlers

import (
	"context"
	"net/http"

	"socialapi/models"
	"socialapi/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createPostRequest struct {
	Title       string `form:"title" json:"title"`
	TextContent string `form:"textContent" json:"textContent"`
	Author      string `form:"author" json:"author" binding:"required"`
}

type updatePostRequest struct {
	TextContent *string `form:"textContent" json:"textContent"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) ListPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	posts, err := h.store.ListPostViews(ctx)
	if err != nil {
		respondError(c, "ListPosts", err, "Posts not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Posts found", "allPosts": posts, "success": true})
}

// CreatePost accepts multipart form fields plus an optional imgContent file.
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	author, err := primitive.ObjectIDFromHex(req.Author)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid author")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	if _, err := h.store.FindUserByID(ctx, author); err != nil {
		respondError(c, "CreatePost", err, "Author not found")
		return
	}

	imgURL, ok := h.uploadImage(ctx, c, "imgContent")
	if !ok {
		return
	}

	post, err := h.posts.CreatePost(ctx, services.NewPost{
		Title:       req.Title,
		TextContent: req.TextContent,
		ImgContent:  imgURL,
		Author:      author,
	})
	if err != nil {
		respondError(c, "CreatePost", err, "Author not found")
		return
	}

	log.WithFields(log.Fields{"postId": post.ID.Hex(), "author": req.Author}).Info("[CreatePost] post created")
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Post saved successfully",
		"savedPost": post,
		"success":   true,
	})
}

func (h *Handler) GetPost(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	post, err := h.store.FindPostByID(ctx, postID)
	if err != nil {
		respondError(c, "GetPost", err, "Post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post found", "singlePost": post, "success": true})
}

// UpdatePost changes textContent and/or the image. Fields that are not sent
// keep their stored value.
func (h *Handler) UpdatePost(c *gin.Context) {
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	if _, err := h.store.FindPostByID(ctx, postID); err != nil {
		respondError(c, "UpdatePost", err, "Post not found")
		return
	}

	imgURL, ok := h.uploadImage(ctx, c, "imgContent")
	if !ok {
		return
	}

	update := models.PostUpdate{TextContent: req.TextContent}
	if imgURL != "" {
		update.ImgContent = &imgURL
	}

	post, err := h.posts.UpdatePost(ctx, postID, update)
	if err != nil {
		respondError(c, "UpdatePost", err, "Post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated", "updatedPost": post, "success": true})
}

func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	post, err := h.posts.DeletePost(ctx, userID, postID)
	if err != nil {
		respondError(c, "DeletePost", err, "User or post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully", "deletedPost": post, "success": true})
}

func (h *Handler) ToggleLike(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	res, err := h.social.ToggleLike(ctx, userID, postID)
	if err != nil {
		respondError(c, "ToggleLike", err, "post not found")
		return
	}

	if res.Liked {
		c.JSON(http.StatusOK, gin.H{
			"message":      "Liked post",
			"likedPost":    res.Post,
			"userWhoLiked": res.User,
			"success":      true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Disliked post",
		"dislikedPost":    res.Post,
		"userWhoDisliked": res.User,
		"success":         true,
	})
}

func (h *Handler) ToggleBookmark(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	bookmarked, err := h.social.ToggleBookmark(ctx, userID, postID)
	if err != nil {
		respondError(c, "ToggleBookmark", err, "user or post not found")
		return
	}

	message := "Removed post from bookmarks"
	if bookmarked {
		message = "Post bookmarked successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "bookmarked": bookmarked, "success": true})
}

func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	postID, ok := paramID(c, "postId")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
	defer cancel()

	post, err := h.social.AddComment(ctx, userID, postID, req.Content)
	if err != nil {
		respondError(c, "AddComment", err, "user or post not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "commentedPost": post, "success": true})
}
