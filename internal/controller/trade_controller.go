package controller

import (
	"finquest-be/internal/dto"
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITradeController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type tradeController struct {
	service service.ITradeService
}

func NewTradeController(service service.ITradeService) ITradeController {
	return &tradeController{service: service}
}

func (c *tradeController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/trades", auth)
	h.Post("", c.Create)
	h.Get("", c.List)
}

func (c *tradeController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateTradeRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return serverutils.JSON(ctx, fiber.StatusCreated, "Trade recorded", res)
}

func (c *tradeController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get trades", res))
}
