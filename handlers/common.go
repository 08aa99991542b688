package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"socialapi/database"
	"socialapi/media"
	"socialapi/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	dbTimeout     = 10 * time.Second
	uploadTimeout = 30 * time.Second
)

// Handler serves every HTTP endpoint of the API.
type Handler struct {
	store     database.Store
	auth      *services.AuthService
	social    *services.SocialService
	posts     *services.PostService
	profiles  *services.ProfileService
	uploader  media.Uploader
	uploadDir string
}

func New(store database.Store, auth *services.AuthService, notifier services.Notifier, uploader media.Uploader, uploadDir string) *Handler {
	return &Handler{
		store:     store,
		auth:      auth,
		social:    services.NewSocialService(store, notifier),
		posts:     services.NewPostService(store),
		profiles:  services.NewProfileService(store),
		uploader:  uploader,
		uploadDir: uploadDir,
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message, "success": false})
}

// respondError maps domain errors to status codes. notFound is the message
// used when a referenced document does not exist.
func respondError(c *gin.Context, handler string, err error, notFound string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		fail(c, http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, database.ErrDuplicate):
		fail(c, http.StatusConflict, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid user credentials")
	case errors.Is(err, services.ErrSelfFollow):
		fail(c, http.StatusBadRequest, "You cannot follow yourself")
	case errors.Is(err, services.ErrNotPostOwner):
		fail(c, http.StatusForbidden, "You can only delete your own posts")
	case errors.Is(err, services.ErrEmptyPost):
		fail(c, http.StatusBadRequest, "Post image or Post content is required")
	case errors.Is(err, services.ErrEmptyComment):
		fail(c, http.StatusBadRequest, "Comment content is required")
	default:
		log.WithError(err).WithField("handler", handler).Error("request failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// bindingMessage turns a binding failure into a short client-facing message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// paramID parses an ObjectID path parameter, writing a 400 when malformed.
func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// uploadImage stages the multipart file in field and forwards it to the
// media store. A missing file yields an empty URL. On false a response has
// already been written.
func (h *Handler) uploadImage(ctx context.Context, c *gin.Context, field string) (string, bool) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", true
	}
	if err != nil {
		log.WithError(err).WithField("field", field).Warn("[uploadImage] unreadable multipart file")
		fail(c, http.StatusBadRequest, "Failed to upload image")
		return "", false
	}

	path := media.StagingPath(h.uploadDir, file.Filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		_ = os.Remove(path)
		log.WithError(err).WithField("path", path).Error("[uploadImage] could not stage file")
		fail(c, http.StatusBadRequest, "Failed to upload image")
		return "", false
	}

	url, err := h.uploader.Upload(ctx, path)
	if err != nil {
		fail(c, http.StatusBadRequest, "Failed to upload image")
		return "", false
	}
	return url, true
}

func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Server started!")
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if p, ok := h.store.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			log.WithError(err).Warn("[Health] database ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}
