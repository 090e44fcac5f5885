package services

import "conduit/internal/repositories"

// TagService handles the read-only flat tag listing. The list is a
// reference table and is not reconciled with article tag lists.
type TagService struct {
	repo repositories.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(repo repositories.TagRepository) *TagService {
	return &TagService{
		repo: repo,
	}
}

// GetAll returns every tag name.
func (s *TagService) GetAll() ([]string, error) {
	tags, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}
