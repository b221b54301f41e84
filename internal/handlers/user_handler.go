package handlers

import (
	"github.com/docuvault/docuvault/internal/authz"
	"github.com/docuvault/docuvault/internal/dto"
	"github.com/docuvault/docuvault/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return renderBadRequest(c, "Invalid request body")
	}

	resp, err := h.userService.Create(actor, &req)
	if err != nil {
		return renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return renderBadRequest(c, "Invalid query parameters")
	}

	resp, err := h.userService.List(actor, &query)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid user id")
	}

	resp, err := h.userService.Get(actor, uint(id))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return renderBadRequest(c, "Invalid request body")
	}

	resp, err := h.userService.Update(actor, uint(id), &req)
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, err := authz.ActorFromContext(c)
	if err != nil {
		return renderUnauthorized(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return renderBadRequest(c, "Invalid user id")
	}

	resp, err := h.userService.Delete(actor, uint(id))
	if err != nil {
		return renderError(c, err)
	}

	return c.JSON(resp)
}
