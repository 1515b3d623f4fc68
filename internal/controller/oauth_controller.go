// FILE: internal/controller/oauth_controller.go
package controller

import (
	"fmt"
	"net/url"

	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	VerifyToken(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, clientURL string, logger logger.ILogger) IOAuthController {
	return &oauthController{service: service, clientURL: clientURL, logger: logger}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/:provider", c.VerifyToken)
	h.Get("/:provider/login", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

// VerifyToken signs in with an access token the frontend got from the provider.
func (c *oauthController) VerifyToken(ctx *fiber.Ctx) error {
	var req dto.ExternalTokenRequest
	if err := bindBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.VerifyExternalToken(ctx.UserContext(), ctx.Params("provider"), req.Token)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	loginURL, err := c.service.GetLoginURL(ctx.Params("provider"))
	if err != nil {
		return err
	}
	return ctx.Redirect(loginURL)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code")
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), ctx.Params("provider"), code)
	if err != nil {
		return err
	}

	c.logger.Info("OAUTH", "Callback sign-in", map[string]interface{}{"user_id": res.User.Id.String()})
	redirectURL := fmt.Sprintf("%s/app?token=%s", c.clientURL, url.QueryEscape(res.AccessToken))
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
