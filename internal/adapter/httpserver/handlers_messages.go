package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/app"
	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerMessageRoutes() {
	limiter := newRateLimiter(s.config.MessageRateLimit, s.config.MessageRateBurst)

	g := s.echo.Group("/messages", s.authRequired)
	g.POST("/send", s.handleSendMessage, limiter)
	g.GET("/conversations", s.handleConversations)
	g.GET("/with/:partnerId", s.handleThread)
}

type sendMessageRequest struct {
	To       string  `json:"to"`
	Content  *string `json:"content"`
	MediaURL *string `json:"mediaUrl"`
	PostID   *string `json:"postId"`
}

type sendMessageResponse struct {
	ID      string    `json:"id"`
	Content *string   `json:"content"`
	SentAt  time.Time `json:"sentAt"`
	To      string    `json:"to"`
}

type conversationResponse struct {
	PartnerID   string    `json:"partnerId"`
	Username    string    `json:"username"`
	AvatarURL   *string   `json:"avatarUrl"`
	LastMessage string    `json:"lastMessage"`
	SentAt      time.Time `json:"sentAt"`
}

type threadMessageResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleSendMessage(c echo.Context) error {
	userID, _ := currentUserID(c)

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	sent, err := s.messaging.SendMessage(c.Request().Context(), app.SendMessageRequest{
		From:     userID,
		To:       req.To,
		Content:  req.Content,
		MediaURL: req.MediaURL,
		PostID:   req.PostID,
	})
	if err != nil {
		return err
	}

	resp := sendMessageResponse{
		ID:      sent.Message.ID,
		Content: sent.Message.Content,
		SentAt:  sent.Message.SentAt,
		To:      sent.Message.ReceiverID,
	}
	if err := c.JSON(http.StatusCreated, resp); err != nil {
		return fmt.Errorf("failed to write message response: %w", err)
	}
	return nil
}

func (s *Server) handleConversations(c echo.Context) error {
	userID, _ := currentUserID(c)

	conversations, err := s.messaging.Conversations(c.Request().Context(), userID)
	if err != nil {
		return apperrors.InternalError("Failed to load conversations", err)
	}

	resp := make([]conversationResponse, len(conversations))
	for i, conv := range conversations {
		resp[i] = conversationResponse{
			PartnerID:   conv.PartnerID,
			Username:    conv.Username,
			AvatarURL:   conv.AvatarURL,
			LastMessage: conv.LastMessage,
			SentAt:      conv.SentAt,
		}
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write conversations response: %w", err)
	}
	return nil
}

func (s *Server) handleThread(c echo.Context) error {
	userID, _ := currentUserID(c)

	partnerID := c.Param("partnerId")
	if partnerID == "" {
		return apperrors.ValidationError("missing partner id")
	}

	messages, err := s.messaging.Thread(c.Request().Context(), userID, partnerID)
	if err != nil {
		return apperrors.InternalError("Failed to load messages", err)
	}

	resp := make([]threadMessageResponse, len(messages))
	for i, msg := range messages {
		sender := "other"
		if msg.FromMe {
			sender = "me"
		}
		resp[i] = threadMessageResponse{
			ID:        msg.ID,
			Text:      msg.Text,
			Sender:    sender,
			Timestamp: msg.SentAt.UTC().Format(time.RFC3339),
		}
	}
	if err := c.JSON(http.StatusOK, resp); err != nil {
		return fmt.Errorf("failed to write thread response: %w", err)
	}
	return nil
}
