package services

import (
	"errors"
	"fmt"

	"conduit/internal/models"
	"conduit/internal/repositories"
)

// UpdateUserInput carries a partial identity update; nil fields are
// left untouched.
type UpdateUserInput struct {
	Email *string
	Bio   *string
	Image *string
}

// ProfileService handles business logic for profiles and follow edges.
type ProfileService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// GetProfile returns a user's profile annotated relative to the
// viewer, or ErrNotFound.
func (s *ProfileService) GetProfile(username string, viewer *models.User) (models.Profile, error) {
	target, err := s.findByUsername(username)
	if err != nil {
		return models.Profile{}, err
	}
	return s.annotate(target, viewer)
}

// Follow adds a follow edge from the actor to the target. Following an
// already-followed user is a no-op; the returned profile always
// reflects the current state.
func (s *ProfileService) Follow(actor *models.User, username string) (models.Profile, error) {
	target, err := s.findByUsername(username)
	if err != nil {
		return models.Profile{}, err
	}
	if err := s.followRepo.Follow(actor.ID, target.ID); err != nil {
		return models.Profile{}, err
	}
	return s.annotate(target, actor)
}

// Unfollow removes the follow edge. Unfollowing a user who was never
// followed is a safe no-op returning following=false.
func (s *ProfileService) Unfollow(actor *models.User, username string) (models.Profile, error) {
	target, err := s.findByUsername(username)
	if err != nil {
		return models.Profile{}, err
	}
	if err := s.followRepo.Unfollow(actor.ID, target.ID); err != nil {
		return models.Profile{}, err
	}
	return s.annotate(target, actor)
}

// UpdateUser applies a partial merge of email, bio and image and
// returns the refreshed record.
func (s *ProfileService) UpdateUser(user *models.User, input UpdateUserInput) (*models.User, error) {
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(user.ID)
}

func (s *ProfileService) findByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("profile %s: %w", username, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) annotate(target *models.User, viewer *models.User) (models.Profile, error) {
	var following *bool
	if viewer != nil {
		f, err := s.followRepo.IsFollowing(viewer.ID, target.ID)
		if err != nil {
			return models.Profile{}, err
		}
		following = &f
	}
	return target.ToProfile(following), nil
}
