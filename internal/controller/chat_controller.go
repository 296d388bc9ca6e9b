package controller

import (
	"errors"

	"investchat-be/internal/constant"
	"investchat-be/internal/dto"
	"investchat-be/internal/pkg/serverutils"
	"investchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetWelcome(ctx *fiber.Ctx) error
	GetConversations(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	DeleteConversation(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/send", c.SendMessage)
	h.Get("/welcome", c.GetWelcome)
	h.Get("/conversations", c.GetConversations)
	h.Get("/conversations/:id/messages", c.GetHistory)
	h.Delete("/conversations/:id", c.DeleteConversation)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrSendInProgress) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(429, err.Error()))
		}
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

// GetWelcome returns the fixed greeting shown when no conversation is
// active. It is never persisted as a message.
func (c *chatController) GetWelcome(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Welcome", fiber.Map{
		"role":    constant.MessageRoleAssistant,
		"content": constant.WelcomeMessage,
	}))
}

func (c *chatController) GetConversations(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetConversations(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversations", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	conversationId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid conversation id"))
	}

	res, err := c.service.GetHistory(ctx.Context(), userId, conversationId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatController) DeleteConversation(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	conversationId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid conversation id"))
	}

	if err := c.service.DeleteConversation(ctx.Context(), userId, &dto.DeleteConversationRequest{ConversationId: conversationId}); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation deleted", nil))
}
