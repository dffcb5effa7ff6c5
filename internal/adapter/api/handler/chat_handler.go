package handler

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/domain/entity"
	"campusx/internal/usecase"
	"campusx/pkg/errors"
	"campusx/pkg/response"
	"campusx/pkg/utils"
)

type ChatHandler struct {
	chatUseCase  *usecase.ChatUseCase
	offerUseCase *usecase.OfferUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, offerUseCase *usecase.OfferUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:  chatUseCase,
		offerUseCase: offerUseCase,
	}
}

type createChatRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	ListingID   string `json:"listing_id"`
}

type sendMessageRequest struct {
	Body        string              `json:"body"`
	Type        string              `json:"type" validate:"omitempty,oneof=text image offer system"`
	Attachments []entity.Attachment `json:"attachments,omitempty"`
}

type offerActionRequest struct {
	Action   string  `json:"action" validate:"required,oneof=create accept decline cancel"`
	OfferID  string  `json:"offer_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CreateChat looks up or creates the chat with the recipient for a listing.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.CreateChat(c.Request().Context(), userID, usecase.CreateChatInput{
		RecipientID: req.RecipientID,
		ListingID:   req.ListingID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

func (h *ChatHandler) GetChatByID(c echo.Context) error {
	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.GetChatByID(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

// GetChatMessages pages through the chat history. Page 1 is the newest page;
// each page is ordered oldest-to-newest.
func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetChatMessages(c.Request().Context(), userID, c.Param("id"), params.Page, params.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID:      c.Param("id"),
		Body:        req.Body,
		Type:        req.Type,
		Attachments: req.Attachments,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// OfferAction is the single negotiation endpoint. The action field selects
// between creating a new offer and acting on an existing one.
func (h *ChatHandler) OfferAction(c echo.Context) error {
	var req offerActionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chatID := c.Param("id")

	action, ok := entity.ParseOfferAction(req.Action)
	if !ok {
		return response.Error(c, errors.BadRequest("Unknown offer action", nil))
	}

	if action == entity.OfferActionCreate {
		offer, err := h.offerUseCase.CreateOffer(c.Request().Context(), userID, usecase.CreateOfferInput{
			ChatID:   chatID,
			Amount:   req.Amount,
			Currency: req.Currency,
		})
		if err != nil {
			return response.Error(c, err)
		}
		return response.Created(c, offer)
	}

	if req.OfferID == "" {
		return response.Error(c, errors.BadRequest("offer_id is required for this action", nil))
	}

	offer, err := h.offerUseCase.Act(c.Request().Context(), userID, chatID, req.OfferID, action)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *ChatHandler) GetChatOffers(c echo.Context) error {
	userID := c.Get("uid").(string)

	offers, err := h.offerUseCase.ListByChat(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offers)
}
