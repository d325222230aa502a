package server

import (
	"postsio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /users. Validation and persistence failures are
// reported with HTTP 200 and {result: false, error: <message>}.
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	// The id is system-generated and immutable; ignore any client value.
	user.ID = ""

	if err := s.userRepo.Create(c.Context(), &user); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"result": true})
}

// DeleteUser handles DELETE /users/:userId. Deleting an id with no matching
// user still reports success; only a storage failure during the cascade
// produces a failure envelope.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	if err := s.userRepo.Delete(c.Context(), userID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"result": true})
}

// ListUsers handles GET /users, returning all active users under the default
// read projection.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.FindActive(c.Context(), nil)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"result":  true,
		"nbUsers": len(users),
		"users":   users,
	})
}

// SignupStats handles GET /users/stats/inscriptions.
func (s *Server) SignupStats(c *fiber.Ctx) error {
	data, err := s.userRepo.SignupStats(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"result": true,
		"data":   data,
	})
}
