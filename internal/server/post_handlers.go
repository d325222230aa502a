package server

import (
	"postsio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListPosts handles GET /posts, returning every post with its embedded
// comments in insertion order.
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postRepo.List(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"result":  true,
		"nbPosts": len(posts),
		"posts":   posts,
	})
}

// CreatePost handles POST /posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		User    string `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	post := models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.User,
	}
	if err := s.postRepo.Create(c.Context(), &post); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"result": true, "post": post})
}

// AddComment handles POST /posts/:postId/comments, appending an embedded
// comment to the post.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID := c.Params("postId")

	var req struct {
		Content string `json:"content"`
		User    string `json:"user"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	comment := models.Comment{
		Content: req.Content,
		UserID:  req.User,
	}
	if err := s.postRepo.AddComment(c.Context(), postID, &comment); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"result": true, "comment": comment})
}
