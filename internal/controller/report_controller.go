package controller

import (
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{service: service}
}

func (c *reportController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/reports", jwtMiddleware)
	h.Get("/overdue", c.Overdue)
}

func (c *reportController) Overdue(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Overdue(ctx.UserContext(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Overdue loans", res))
}
