// FILE: internal/controller/admin_controller.go
package controller

import (
	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"
	"library-management-be/pkg/access"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetAllUsers(ctx *fiber.Ctx) error
	CreateUser(ctx *fiber.Ctx) error
	UpdateUser(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IUserService
}

func NewAdminController(service service.IUserService) IAdminController {
	return &adminController{service: service}
}

// adminMiddleware rejects tokens that do not claim the admin role. The
// service still checks the stored role.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	if !access.CanManageUsers(actor.Role) {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Admin access required"))
	}
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/admin", jwtMiddleware, c.adminMiddleware)
	h.Get("/users", c.GetAllUsers)
	h.Post("/users", c.CreateUser)
	h.Patch("/users/:id", c.UpdateUser)
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.AdminListUsers(ctx.UserContext(), actor,
		ctx.Query("role"), ctx.QueryInt("page", 1), ctx.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *adminController) CreateUser(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	var req dto.AdminCreateUserRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AdminCreateUser(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User created", res))
}

func (c *adminController) UpdateUser(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AdminUpdateUserRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AdminUpdateUser(ctx.UserContext(), actor, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", res))
}
