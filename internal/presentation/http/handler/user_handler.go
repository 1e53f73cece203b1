package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/request"
	"github.com/sangkips/oscr-register/internal/presentation/http/dto/response"
)

// UserHandler handles operator management HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func userList(users []*entity.User) []*response.UserResponse {
	out := make([]*response.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, response.NewUserResponse(u))
	}
	return out
}

// List handles listing the operators valid now
// @Summary List Users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Users retrieved successfully", userList(users))
}

// Create handles creating an operator
// @Summary Create User
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param request body request.CreateUserRequest true "Operator"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req request.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.userService.CreateOperator(c.Request.Context(), &service.CreateOperatorInput{
		Name:      req.Name,
		PIN:       req.PIN,
		Role:      enum.UserRole(req.Role),
		ValidFrom: req.ValidFrom,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User created successfully", response.NewUserResponse(user))
}

// Update changes an operator's PIN or role from now on
// @Summary Update User
// @Tags users
// @Security BearerAuth
// @Accept json
// @Param id path string true "User ID"
// @Param request body request.UpdateUserRequest true "Changes"
// @Success 200 {object} response.APIResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	input := &service.UpdateOperatorInput{PIN: req.PIN}
	if req.Role != nil {
		role := enum.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateOperator(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User updated successfully", response.NewUserResponse(user))
}

// Archive ends an operator now
// @Summary Archive User
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /users/{id}/archive [post]
func (h *UserHandler) Archive(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.ArchiveOperator(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User archived successfully", response.NewUserResponse(user))
}

// History lists every version of the operator
// @Summary User History
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Router /users/{id}/history [get]
func (h *UserHandler) History(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.userService.History(c.Request.Context(), user.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User history retrieved successfully", userList(history))
}
