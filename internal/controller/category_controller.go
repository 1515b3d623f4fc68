package controller

import (
	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICategoryController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type categoryController struct {
	catalog service.ICatalogService
}

func NewCategoryController(catalog service.ICatalogService) ICategoryController {
	return &categoryController{catalog: catalog}
}

func (c *categoryController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/categories")
	h.Get("/", c.List)
	h.Post("/", jwtMiddleware, c.Create)
	h.Put("/:id", jwtMiddleware, c.Rename)
	h.Delete("/:id", jwtMiddleware, c.Delete)
}

func (c *categoryController) List(ctx *fiber.Ctx) error {
	res, err := c.catalog.ListCategories(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Categories", res))
}

func (c *categoryController) Create(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.catalog.CreateCategory(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Category created", res))
}

func (c *categoryController) Rename(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.catalog.RenameCategory(ctx.UserContext(), actor, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category renamed", res))
}

// Delete accepts ?force=true to drop books on loan and ?reassign_to=<id> to
// move the books instead of deleting them.
func (c *categoryController) Delete(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	opts := dto.DeleteCategoryOptions{Force: ctx.QueryBool("force", false)}
	if raw := ctx.Query("reassign_to"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reassign_to")
		}
		opts.ReassignTo = &target
	}

	res, err := c.catalog.DeleteCategory(ctx.UserContext(), actor, id, opts)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category deleted", res))
}
