package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"todoapp/internal/common"
	"todoapp/internal/logging"
	"todoapp/internal/server/models"
)

// UserGate is the authentication gate the transport depends on. Every
// protected route resolves its identity through Authorize and nothing else.
type UserGate interface {
	SignUp(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Authorize(ctx context.Context, authorizationHeader string) (*models.User, error)
	DeleteAccount(ctx context.Context, user *models.User, password string) error
}

type TodoManager interface {
	Create(ctx context.Context, ownerID int64, todo *models.Todo) (*models.Todo, error)
	List(ctx context.Context, ownerID int64) ([]*models.Todo, error)
	Update(ctx context.Context, ownerID, id int64, upd models.TodoUpdate) (*models.Todo, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type handler struct {
	users  UserGate
	todos  TodoManager
	logger logging.Logger
}

func newHandler(users UserGate, todos TodoManager, l logging.Logger) *handler {
	return &handler{users: users, todos: todos, logger: l}
}

// --- request/response shapes ---

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

type todoCreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Completed   bool      `json:"completed"`
}

type todoUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   *bool      `json:"completed"`
}

type todoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Completed   bool      `json:"completed"`
	OwnerID     int64     `json:"owner_id"`
}

func toTodoResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		OwnerID:     t.OwnerID,
	}
}

// --- endpoints ---

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorLoginAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists"})
			return
		}
		h.serverError(c, "signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// an unknown username and a wrong password produce this same
		// response, so the auth path cannot be used to enumerate accounts
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		h.serverError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     user.Username,
		"userID":       user.ID,
	})
}

func (h *handler) createTodo(c *gin.Context) {
	user := currentUser(c)

	var req todoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo payload"})
		return
	}

	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	}

	created, err := h.todos.Create(c.Request.Context(), user.ID, todo)
	if err != nil {
		h.serverError(c, "create todo failed", err)
		return
	}

	c.JSON(http.StatusCreated, toTodoResponse(created))
}

func (h *handler) listTodos(c *gin.Context) {
	user := currentUser(c)

	items, err := h.todos.List(c.Request.Context(), user.ID)
	if err != nil {
		h.serverError(c, "list todos failed", err)
		return
	}

	out := make([]todoResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toTodoResponse(item))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) updateTodo(c *gin.Context) {
	user := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return
	}

	var req todoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo payload"})
		return
	}

	updated, err := h.todos.Update(c.Request.Context(), user.ID, id, models.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		h.serverError(c, "update todo failed", err)
		return
	}

	c.JSON(http.StatusOK, toTodoResponse(updated))
}

func (h *handler) deleteTodo(c *gin.Context) {
	user := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo id"})
		return
	}

	if err := h.todos.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		h.serverError(c, "delete todo failed", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) deleteAccount(c *gin.Context) {
	user := currentUser(c)

	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), user, req.Password); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		h.serverError(c, "delete account failed", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// serverError logs the detail server-side and answers with an opaque 500.
func (h *handler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(c.Request.Context(), msg, "error", err.Error(), "request_id", c.GetString(requestIDKey))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
