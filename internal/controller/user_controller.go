// FILE: internal/controller/user_controller.go
package controller

import (
	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	ListBorrowed(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	loans   service.ILoanService
}

func NewUserController(service service.IUserService, loans service.ILoanService) IUserController {
	return &userController{service: service, loans: loans}
}

func (c *userController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/user", jwtMiddleware)
	h.Get("/", c.GetProfile)
	h.Put("/", c.UpdateProfile)
	h.Get("/borrowed", c.ListBorrowed)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) ListBorrowed(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.loans.ListBorrowed(ctx.UserContext(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Borrowed books", res))
}
