package controller

import (
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILeaderboardController interface {
	RegisterRoutes(r fiber.Router)
	Top(ctx *fiber.Ctx) error
}

type leaderboardController struct {
	service service.ILeaderboardService
}

func NewLeaderboardController(service service.ILeaderboardService) ILeaderboardController {
	return &leaderboardController{service: service}
}

func (c *leaderboardController) RegisterRoutes(r fiber.Router) {
	r.Get("/leaderboard/top", c.Top)
}

func (c *leaderboardController) Top(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", service.DefaultLeaderboardLimit)

	res, err := c.service.Top(ctx.Context(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get leaderboard", res))
}
