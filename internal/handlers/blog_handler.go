package handlers

import (
	"errors"

	"atelier/internal/middleware"
	"atelier/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BlogHandler handles the public blog endpoints.
type BlogHandler struct {
	blogService *services.BlogService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService *services.BlogService, authService *services.AuthService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the blog routes with the Fiber app.
func (h *BlogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/posts", h.HandleListPosts)
	router.Get("/posts/:slug", h.HandleGetPost)
	router.Post("/posts/:slug/comments", middleware.AuthRequired(h.authService), h.HandleAddComment)
}

// HandleListPosts lists all posts, newest first.
func (h *BlogHandler) HandleListPosts(c *fiber.Ctx) error {
	posts, err := h.blogService.ListPosts(0)
	if err != nil {
		return internalError(c, "Could not retrieve posts", err)
	}
	return c.JSON(posts)
}

// HandleGetPost returns one post with its comments.
func (h *BlogHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.blogService.GetPostBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c, "Could not retrieve post", err)
	}
	return c.JSON(post)
}

// CommentRequest represents the request body for a new comment.
type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// HandleAddComment creates a comment on a post for the authenticated user.
func (h *BlogHandler) HandleAddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	comment, err := h.blogService.AddComment(c.Params("slug"), middleware.UserID(c), req.Body)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Post not found")
		}
		return internalError(c, "Could not create comment", err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
