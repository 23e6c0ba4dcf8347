package repositories

import "atelier/internal/models"

// PostRepository defines the interface for blog data access.
type PostRepository interface {
	List(limit int) ([]models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id string) error
	AddComment(comment *models.Comment) error
}
