package services

import (
	"fmt"

	"atelier/internal/models"
	"atelier/internal/repositories"
)

// BlogService handles blog posts and comments.
type BlogService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *BlogService {
	return &BlogService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// ListPosts retrieves posts, newest first. A limit of 0 means all.
func (s *BlogService) ListPosts(limit int) ([]models.Post, error) {
	return s.postRepo.List(limit)
}

// GetPostBySlug retrieves a post with its comments.
func (s *BlogService) GetPostBySlug(slug string) (*models.Post, error) {
	return s.postRepo.GetBySlug(slug)
}

// AddComment attaches a comment by an authenticated user to a post.
func (s *BlogService) AddComment(postSlug, userID, body string) (*models.Comment, error) {
	post, err := s.postRepo.GetBySlug(postSlug)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("comment author: %w", err)
	}

	comment := &models.Comment{
		PostID:     post.ID,
		AuthorID:   user.ID,
		AuthorName: user.Username,
		Body:       body,
	}
	if err := s.postRepo.AddComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CreatePost creates a new post (staff operation).
func (s *BlogService) CreatePost(post *models.Post) error {
	return s.postRepo.Create(post)
}

// UpdatePost updates an existing post (staff operation).
func (s *BlogService) UpdatePost(post *models.Post) error {
	return s.postRepo.Update(post)
}

// DeletePost deletes a post (staff operation).
func (s *BlogService) DeletePost(id string) error {
	return s.postRepo.Delete(id)
}
