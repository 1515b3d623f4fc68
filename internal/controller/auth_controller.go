// FILE: internal/controller/auth_controller.go
package controller

import (
	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	r.Post("/register", c.Register)
	r.Post("/login", c.Login)
	r.Post("/logout", jwtMiddleware, c.Logout)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

// Logout revokes the presented token until it would have expired anyway.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	jti, exp, err := serverutils.CurrentToken(ctx)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	if err := c.service.Logout(ctx.UserContext(), jti, exp); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out successfully", nil))
}
