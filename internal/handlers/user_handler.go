package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurant-management-backend/internal/auth"
	"restaurant-management-backend/internal/middleware"
	"restaurant-management-backend/internal/models"
	"restaurant-management-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	users     *repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserHandler(users *repository.UserRepository, jwtSecret, expirySecs string) *UserHandler {
	secs, err := strconv.Atoi(expirySecs)
	if err != nil || secs <= 0 {
		secs = 86400
	}
	return &UserHandler{
		users:     users,
		jwtSecret: jwtSecret,
		tokenTTL:  time.Duration(secs) * time.Second,
	}
}

func (h *UserHandler) issueToken(u *models.User) (string, error) {
	return auth.GenerateToken(h.jwtSecret, u.ID, u.Email, u.Role, u.IsActive, u.IsBanned, h.tokenTTL)
}

func (h *UserHandler) Signup(c *gin.Context) {
	var payload struct {
		Firstname   string `json:"firstname"`
		Lastname    string `json:"lastname"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phone_number"`
		Password    string `json:"password"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	password := strings.TrimSpace(payload.Password)
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	if _, err := h.users.GetByEmail(email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user with this email already exists"})
		return
	}

	// Signup has no authenticated caller; the new user's firstname stands in
	// for the audit fields.
	actor := strings.TrimSpace(payload.Firstname)
	if actor == "" {
		actor = "signup"
	}
	user := &models.User{
		Firstname:   payload.Firstname,
		Lastname:    payload.Lastname,
		Email:       email,
		PhoneNumber: payload.PhoneNumber,
		Role:        models.RoleUser,
		IsActive:    true,
	}
	user.CreatedBy = actor
	user.UpdatedBy = actor
	if err := user.SetPassword(password); err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.Create(user); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *UserHandler) Login(c *gin.Context) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user, err := h.users.GetByEmail(payload.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.VerifyPassword(strings.TrimSpace(payload.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *UserHandler) List(c *gin.Context) {
	page, perPage := pagination(c)
	users, err := h.users.List(page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":        u.ID.String(),
			"email":     u.Email,
			"firstname": u.Firstname,
			"lastname":  u.Lastname,
			"role":      u.Role,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) targetUser(c *gin.Context) (*models.User, bool) {
	id, err := uuid.Parse(normalizeID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return nil, false
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return nil, false
	}
	return user, true
}

func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.targetUser(c)
	if !ok {
		return
	}
	var payload struct {
		Firstname   *string `json:"firstname"`
		Lastname    *string `json:"lastname"`
		PhoneNumber *string `json:"phone_number"`
		ImageURL    *string `json:"image_url"`
		Password    *string `json:"password"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Firstname != nil {
		user.Firstname = *payload.Firstname
	}
	if payload.Lastname != nil {
		user.Lastname = *payload.Lastname
	}
	if payload.PhoneNumber != nil {
		user.PhoneNumber = *payload.PhoneNumber
	}
	if payload.ImageURL != nil {
		user.ImageURL = *payload.ImageURL
	}
	if payload.Password != nil && strings.TrimSpace(*payload.Password) != "" {
		if err := user.SetPassword(strings.TrimSpace(*payload.Password)); err != nil {
			respondError(c, err)
			return
		}
	}
	user.UpdatedBy = middleware.Actor(c)

	if err := h.users.Save(user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, ok := h.targetUser(c)
	if !ok {
		return
	}
	if err := h.users.SoftDelete(user); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
