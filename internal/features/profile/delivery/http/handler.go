package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"userprofile-backend/internal/common/errors"
	"userprofile-backend/internal/features/profile/models"
	"userprofile-backend/internal/features/profile/service"
)

// ProfileHandler binds the five /users routes to the profile service.
// Failures are attached to the gin context and rendered by the error
// handler middleware.
type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *ProfileHandler) CreateUser(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// The raw bind error may echo body fields, the SSN among them.
		_ = c.Error(errors.New(errors.ErrCodeValidation, "Invalid request body"))
		return
	}

	profile, err := h.service.CreateProfile(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetUsers(c *gin.Context) {
	profiles, err := h.service.ListProfiles(c.Request.Context(), c.Query("search"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) GetUser(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateUser(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errors.New(errors.ErrCodeValidation, "Invalid request body"))
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteUser(c *gin.Context) {
	result, err := h.service.DeleteProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.String(http.StatusOK, result)
}
