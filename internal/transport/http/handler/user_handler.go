package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain"
	"taskboard/internal/service"
	"taskboard/internal/transport/http/ez"
)

var userList = ez.ListSpec{
	Filters: map[string]ez.Filter{
		"name": {Column: "name"},
		"role": {Column: "role"},
	},
	DefaultLimit: 5,
	MaxLimit:     100,
}

type createUserIn struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"omitempty,oneof=manager employee"`
}

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Priority() int { return 20 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[createUserIn, *domain.User]{
		Method:  http.MethodPost,
		Path:    "/user",
		Binder:  ez.BindJSON,
		Title:   "User Validation Error",
		Message: "Create User Successfully",
		Handler: func(c *gin.Context, in *createUserIn) (*domain.User, error) {
			return h.users.Create(c.Request.Context(), service.CreateUserInput{
				Name: in.Name,
				Role: domain.Role(in.Role),
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.User]{
		Method:  http.MethodGet,
		Path:    "/user",
		Binder:  ez.BindNone,
		Message: "Get All Users Successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			q, err := userList.Parse(c.Request.URL.Query())
			if err != nil {
				return nil, err
			}
			return h.users.List(c.Request.Context(), q)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method:  http.MethodGet,
		Path:    "/user/:id",
		Binder:  ez.BindNone,
		Message: "Get User by Id Successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.users.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.UserTasks]{
		Method:  http.MethodGet,
		Path:    "/user/:id/tasks",
		Binder:  ez.BindNone,
		Message: "Get Tasks of User Successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.UserTasks, error) {
			return h.users.Tasks(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.User]{
		Method:  http.MethodDelete,
		Path:    "/user/:id",
		Binder:  ez.BindNone,
		Message: "Delete User Successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.users.Delete(c.Request.Context(), c.Param("id"))
		},
	})
}

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[BrowseIn, Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *BrowseIn) (Page[domain.User], error) {
			items, total, err := h.users.Browse(c.Request.Context(), in.query())
			if err != nil {
				return Page[domain.User]{}, err
			}
			return Page[domain.User]{Total: total, Items: items}, nil
		},
	})
}
