package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

// UserHandler handles user administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	PIN           string `json:"pin"`
	Name          string `json:"name" validate:"required"`
	Role          string `json:"role"`
	AssignedStage string `json:"assignedStage"`
}

// updateUserRequest is decoded strictly. ID is accepted because clients echo
// the whole user back, but a user's id never changes.
type updateUserRequest struct {
	ID            *string `json:"id"`
	Username      *string `json:"username"`
	Password      *string `json:"password"`
	PIN           *string `json:"pin"`
	Name          *string `json:"name"`
	Role          *string `json:"role"`
	AssignedStage *string `json:"assignedStage"`
}

type initRequest struct {
	Users []createUserRequest `json:"users" validate:"dive"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (r createUserRequest) toInput() ports.CreateUserInput {
	return ports.CreateUserInput{
		ID:            r.ID,
		Username:      r.Username,
		Password:      r.Password,
		PIN:           r.PIN,
		Name:          r.Name,
		Role:          r.Role,
		AssignedStage: r.AssignedStage,
	}
}

func (r updateUserRequest) toPatch() domain.UserPatch {
	return domain.UserPatch{
		Username:      r.Username,
		Password:      r.Password,
		PIN:           r.PIN,
		Name:          r.Name,
		Role:          r.Role,
		AssignedStage: r.AssignedStage,
	}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}  domain.User
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /api/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update handles PUT /api/users/:id. Only the supplied fields change.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := decodeStrict(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  statusResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// Init handles POST /api/init: it seeds users into an empty installation and
// does nothing otherwise.
//
// @Summary      Seed initial users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      initRequest  true  "Users to seed"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/init [post]
func (h *UserHandler) Init(c echo.Context) error {
	var req initRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inputs := make([]ports.CreateUserInput, 0, len(req.Users))
	for _, u := range req.Users {
		inputs = append(inputs, u.toInput())
	}
	if _, err := h.service.Seed(c.Request().Context(), inputs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Initialized"})
}
