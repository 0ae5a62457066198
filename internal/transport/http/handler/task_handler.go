package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain"
	"taskboard/internal/service"
	"taskboard/internal/transport/http/ez"
)

const taskTitle = "Task Validation Error"

var taskList = ez.ListSpec{
	Filters: map[string]ez.Filter{
		"name":   {Column: "name"},
		"status": {Column: "status"},
	},
	Sorts: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	DefaultSort:  "createdAt",
	DefaultLimit: 5,
	MaxLimit:     100,
}

type createTaskIn struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description" binding:"required"`
	Status      string `json:"status"      binding:"omitempty,oneof=pending working review done archive"`
}

// Status is a pointer so a present "" fails oneof instead of reading as absent.
type updateTaskIn struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending working review done archive"`
}

type assignIn struct {
	Assignee *string `json:"assignee"`
}

// BrowseIn is the operator listing query shared by both admin listings.
type BrowseIn struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`
	WithDeleted bool   `form:"with_deleted"`
}

func (in BrowseIn) query() domain.BrowseQuery {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	return domain.BrowseQuery{Offset: in.Offset, Limit: in.Limit, Q: in.Q, WithDeleted: in.WithDeleted}
}

type Page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

type TaskHandler struct {
	tasks  *service.TaskService
	assign *service.AssignmentService
}

func NewTaskHandler(tasks *service.TaskService, assign *service.AssignmentService) *TaskHandler {
	return &TaskHandler{tasks: tasks, assign: assign}
}

func (h *TaskHandler) Priority() int { return 10 }

func (h *TaskHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[createTaskIn, *domain.Task]{
		Method:  http.MethodPost,
		Path:    "/task",
		Binder:  ez.BindJSON,
		Title:   taskTitle,
		Message: "Create Task Successfully",
		Handler: func(c *gin.Context, in *createTaskIn) (*domain.Task, error) {
			return h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
				Name:        in.Name,
				Description: in.Description,
				Status:      domain.TaskStatus(in.Status),
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Task]{
		Method:  http.MethodGet,
		Path:    "/task",
		Binder:  ez.BindNone,
		Message: "Get All Tasks Successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Task, error) {
			q, err := taskList.Parse(c.Request.URL.Query())
			if err != nil {
				return nil, err
			}
			return h.tasks.List(c.Request.Context(), q)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.TaskView]{
		Method:  http.MethodGet,
		Path:    "/task/:id",
		Binder:  ez.BindNone,
		Message: "Get Task by Id Successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.TaskView, error) {
			return h.tasks.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Task]{
		Method:  http.MethodDelete,
		Path:    "/task/:id",
		Binder:  ez.BindNone,
		Message: "Delete Task Successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Task, error) {
			return h.tasks.Delete(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[assignIn, *domain.TaskView]{
		Method:  http.MethodPost,
		Path:    "/task/:id",
		Binder:  ez.BindJSONOptional,
		Title:   taskTitle,
		Message: "Assign Task Successfully",
		Handler: func(c *gin.Context, in *assignIn) (*domain.TaskView, error) {
			var userID string
			if in.Assignee != nil {
				userID = *in.Assignee
			}
			v, err := h.assign.Assign(c.Request.Context(), c.Param("id"), userID)
			if err == nil && userID == "" {
				c.Set(ez.KeyMessage, "Unassign Task Successfully")
			}
			return v, err
		},
	})

	ez.RegisterAction(e, ez.Action[updateTaskIn, *domain.Task]{
		Method:  http.MethodPut,
		Path:    "/task/:id",
		Binder:  ez.BindJSONOptional,
		Title:   taskTitle,
		Message: "Update Task Successfully",
		Handler: func(c *gin.Context, in *updateTaskIn) (*domain.Task, error) {
			upd := domain.TaskUpdate{Name: in.Name, Description: in.Description}
			if in.Status != nil {
				upd.Status = domain.TaskStatus(*in.Status)
			}
			return h.tasks.Update(c.Request.Context(), c.Param("id"), upd)
		},
	})
}

func (h *TaskHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[BrowseIn, Page[domain.Task]]{
		Method: http.MethodGet,
		Path:   "/tasks",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *BrowseIn) (Page[domain.Task], error) {
			items, total, err := h.tasks.Browse(c.Request.Context(), in.query())
			if err != nil {
				return Page[domain.Task]{}, err
			}
			return Page[domain.Task]{Total: total, Items: items}, nil
		},
	})
}
