package handler

import (
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/pkg/serverutils"
	"library-management-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service service.INotificationService
	logger  logger.ILogger
}

func NewNotificationHandler(service service.INotificationService, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	g := r.Group("/notifications", jwtMiddleware)
	g.Get("/", h.GetNotifications)
	g.Get("/unread-count", h.GetUnreadCount)
	g.Patch("/read-all", h.MarkAllAsRead)
	g.Patch("/:id/read", h.MarkAsRead)
	// the web client posts
	g.Post("/:id/read", h.MarkAsRead)
}

// GetNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(c)
	if err != nil {
		return err
	}

	res, err := h.service.List(c.UserContext(), actor, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Notifications", res))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(c)
	if err != nil {
		return err
	}

	count, err := h.service.UnreadCount(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Unread count", fiber.Map{"count": count}))
}

// MarkAsRead answers 404 for ids that belong to someone else.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid ID")
	}

	if err := h.service.MarkRead(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse[any]("Notification marked as read", nil))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	actor, err := serverutils.CurrentActor(c)
	if err != nil {
		return err
	}

	updated, err := h.service.MarkAllRead(c.UserContext(), actor)
	if err != nil {
		return err
	}
	h.logger.Debug("NotificationHandler", "Marked all as read", map[string]interface{}{
		"user_id": actor.UserID.String(),
		"updated": updated,
	})
	return c.JSON(serverutils.SuccessResponse("All notifications marked as read", fiber.Map{"updated": updated}))
}
