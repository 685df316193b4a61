package controller

import (
	"finquest-be/internal/dto"
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	UpdateProfile(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/users/me", auth)
	h.Patch("", c.UpdateProfile)
	h.Get("/stats", c.GetStats)
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	// Clients send "" to mean "keep the current avatar"; drop it before the url rule runs.
	if req.AvatarURL != nil && *req.AvatarURL == "" {
		req.AvatarURL = nil
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.Context(), userId, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) GetStats(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetStats(ctx.Context(), userId)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}
