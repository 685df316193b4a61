package controller

import (
	"finquest-be/internal/dto"
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILessonController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	UpdateProgress(ctx *fiber.Ctx) error
}

type lessonController struct {
	service service.ILessonService
}

func NewLessonController(service service.ILessonService) ILessonController {
	return &lessonController{service: service}
}

func (c *lessonController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/lessons", auth)
	h.Get("", c.List)
	h.Patch("/:lessonId/progress", c.UpdateProgress)
}

func (c *lessonController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get lessons", res))
}

func (c *lessonController) UpdateProgress(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	lessonId, err := uuid.Parse(ctx.Params("lessonId"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, service.ErrLessonNotFound.Error())
	}

	var req dto.UpdateProgressRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProgress(ctx.Context(), userId, lessonId, *req.Percent)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Progress updated", res))
}
