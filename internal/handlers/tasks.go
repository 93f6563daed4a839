package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mindspace/api/internal/database"
	"github.com/mindspace/api/internal/middleware"
	"github.com/mindspace/api/internal/models"
)

// TaskHandler handles the task list CRUD endpoints
type TaskHandler struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(db *database.Postgres, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{db: db, logger: logger}
}

// List handles GET /api/tasks/:userId
func (h *TaskHandler) List(c *gin.Context) {
	userID := c.Param("userId")

	query := `SELECT id, user_id, title, completed, created_at, updated_at
	          FROM tasks WHERE user_id = $1 ORDER BY created_at`
	rows, err := h.db.Pool().Query(c.Request.Context(), query, userID)
	if err != nil {
		h.logger.Error("could not list tasks", zap.Error(err))
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "could not list tasks")
		return
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			h.logger.Error("could not scan task", zap.Error(err))
			middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "could not list tasks")
			return
		}
		tasks = append(tasks, t)
	}

	c.JSON(http.StatusOK, tasks)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req models.TaskCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		middleware.BadRequest(c, "invalid or missing 'title'")
		return
	}

	task := models.Task{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Title:     req.Title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO tasks (id, user_id, title, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := h.db.Pool().Exec(c.Request.Context(), query,
		task.ID, task.UserID, task.Title, task.Completed, task.CreatedAt, task.UpdatedAt); err != nil {
		h.logger.Error("could not create task", zap.Error(err))
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "could not create task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update handles PUT /api/tasks/:id. Omitting 'completed' toggles it.
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.BadRequest(c, "invalid task id")
		return
	}

	var req models.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, "invalid request body")
		return
	}

	var task models.Task
	query := `SELECT id, user_id, title, completed, created_at, updated_at FROM tasks WHERE id = $1`
	err = h.db.Pool().QueryRow(c.Request.Context(), query, id).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			middleware.NotFound(c, "task not found")
			return
		}
		h.logger.Error("could not load task", zap.Error(err))
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "could not update task")
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	} else {
		task.Completed = !task.Completed
	}
	task.UpdatedAt = time.Now().UTC()

	updateQuery := `UPDATE tasks SET title = $1, completed = $2, updated_at = $3 WHERE id = $4`
	if _, err := h.db.Pool().Exec(c.Request.Context(), updateQuery,
		task.Title, task.Completed, task.UpdatedAt, task.ID); err != nil {
		h.logger.Error("could not update task", zap.Error(err))
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "could not update task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.BadRequest(c, "invalid task id")
		return
	}

	result, err := h.db.Pool().Exec(c.Request.Context(), `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		h.logger.Error("could not delete task", zap.Error(err))
		middleware.RespondError(c, http.StatusInternalServerError, middleware.ErrCodeDatabaseError, "could not delete task")
		return
	}
	if result.RowsAffected() == 0 {
		middleware.NotFound(c, "task not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
