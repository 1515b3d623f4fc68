package controller

import (
	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
}

type bookController struct {
	catalog service.ICatalogService
	loans   service.ILoanService
}

func NewBookController(catalog service.ICatalogService, loans service.ILoanService) IBookController {
	return &bookController{catalog: catalog, loans: loans}
}

func (c *bookController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/books")
	h.Get("/", c.List)
	h.Get("/:isbn", c.Get)

	h.Post("/", jwtMiddleware, c.Create)
	h.Put("/:isbn", jwtMiddleware, c.Update)
	h.Delete("/:isbn", jwtMiddleware, c.Delete)

	h.Post("/:isbn/borrow", jwtMiddleware, c.Borrow)
	h.Post("/:isbn/return", jwtMiddleware, c.Return)
	h.Post("/:isbn/pay-fee", jwtMiddleware, c.PayFee)
	h.Get("/:isbn/fee", jwtMiddleware, c.QuoteFee)
}

func (c *bookController) List(ctx *fiber.Ctx) error {
	query := dto.BookListQuery{
		Status: ctx.Query("status"),
		Limit:  ctx.QueryInt("limit", 20),
		Offset: ctx.QueryInt("offset", 0),
	}
	if raw := ctx.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
		}
		query.CategoryId = &id
	}
	if err := serverutils.ValidateRequest(&query); err != nil {
		return err
	}

	res, err := c.catalog.ListBooks(ctx.UserContext(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Books", res))
}

func (c *bookController) Get(ctx *fiber.Ctx) error {
	res, err := c.catalog.GetBook(ctx.UserContext(), ctx.Params("isbn"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Book", res))
}

func (c *bookController) Create(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateBookRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.catalog.CreateBook(ctx.UserContext(), actor, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Book created", res))
}

func (c *bookController) Update(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	var req dto.UpdateBookRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.catalog.UpdateBook(ctx.UserContext(), actor, ctx.Params("isbn"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Book updated", res))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	if err := c.catalog.DeleteBook(ctx.UserContext(), actor, ctx.Params("isbn")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Book deleted", nil))
}

func (c *bookController) Borrow(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.loans.Borrow(ctx.UserContext(), actor, ctx.Params("isbn"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Book borrowed", res))
}

func (c *bookController) Return(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.loans.Return(ctx.UserContext(), actor, ctx.Params("isbn"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Book returned", res))
}

func (c *bookController) PayFee(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}
	var req dto.PayFeeRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.loans.PayFee(ctx.UserContext(), actor, ctx.Params("isbn"), req.Amount)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Fee paid", res))
}

func (c *bookController) QuoteFee(ctx *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(ctx)
	if err != nil {
		return err
	}

	res, err := c.loans.QuoteFee(ctx.UserContext(), actor, ctx.Params("isbn"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Fee quote", res))
}
