package httpserver

import (
	"fmt"
	"net/http"

	"github.com/aryanchaturvedi13/Social-Media-Management/internal/domain"
	apperrors "github.com/aryanchaturvedi13/Social-Media-Management/internal/platform/errors"
	"github.com/labstack/echo/v4"
)

func (s *Server) registerPostRoutes() {
	g := s.echo.Group("/posts", s.authRequired)
	g.POST("/:id/like", s.handleToggleLike)
	g.POST("/:id/comments", s.handleAddComment)
}

type likeResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleToggleLike(c echo.Context) error {
	userID, _ := currentUserID(c)

	result, err := s.posts.ToggleLike(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, likeResponse{Liked: result.Liked, LikeCount: result.LikeCount}); err != nil {
		return fmt.Errorf("failed to write like response: %w", err)
	}
	return nil
}

// handleAddComment answers with the same body that post_comment_added carries.
func (s *Server) handleAddComment(c echo.Context) error {
	userID, _ := currentUserID(c)

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	result, err := s.posts.AddComment(c.Request().Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, domain.NewCommentEvent(result)); err != nil {
		return fmt.Errorf("failed to write comment response: %w", err)
	}
	return nil
}
