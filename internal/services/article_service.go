package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/pkg/rabbitmq"
)

// impossibleUserID stands in for a username filter that resolved to no
// user. No row carries it, so the filter yields an empty page instead
// of an error.
const impossibleUserID = "0"

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// CreateArticleInput carries the fields of a new article.
type CreateArticleInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// UpdateArticleInput carries a partial update; nil fields are left
// untouched. The slug is generated once at creation and never changes,
// even when the title does.
type UpdateArticleInput struct {
	Title       *string
	Description *string
	Body        *string
	TagList     []string
}

// ListArticlesQuery narrows and paginates the global article listing.
// Author and Favorited are usernames.
type ListArticlesQuery struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// ArticleService handles business logic for articles, favorites and
// comments.
type ArticleService struct {
	articleRepo  repositories.ArticleRepository
	userRepo     repositories.UserRepository
	commentRepo  repositories.CommentRepository
	favoriteRepo repositories.FavoriteRepository
	followRepo   repositories.FollowRepository
	mqClient     *rabbitmq.Client
}

// NewArticleService creates a new ArticleService. mqClient may be nil,
// in which case event publication is skipped.
func NewArticleService(
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	favoriteRepo repositories.FavoriteRepository,
	followRepo repositories.FollowRepository,
	mqClient *rabbitmq.Client,
) *ArticleService {
	return &ArticleService{
		articleRepo:  articleRepo,
		userRepo:     userRepo,
		commentRepo:  commentRepo,
		favoriteRepo: favoriteRepo,
		followRepo:   followRepo,
		mqClient:     mqClient,
	}
}

// List returns one page of articles matching the query, annotated
// relative to the viewer, plus the total match count before pagination.
func (s *ArticleService) List(query ListArticlesQuery, viewer *models.User) ([]models.ArticleView, int64, error) {
	filter := repositories.ArticleFilter{
		Tag:    query.Tag,
		Limit:  query.Limit,
		Offset: query.Offset,
	}

	if query.Author != "" {
		filter.AuthorID = s.resolveUsername(query.Author)
	}
	if query.Favorited != "" {
		filter.FavoritedBy = s.resolveUsername(query.Favorited)
	}

	articles, total, err := s.articleRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.annotateList(articles, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Feed returns one page of articles authored by users the viewer
// follows. A viewer following nobody gets an empty page, not an error.
func (s *ArticleService) Feed(viewer *models.User, limit, offset int) ([]models.ArticleView, int64, error) {
	followeeIDs, err := s.followRepo.FolloweeIDs(viewer.ID)
	if err != nil {
		return nil, 0, err
	}
	if len(followeeIDs) == 0 {
		return []models.ArticleView{}, 0, nil
	}

	articles, total, err := s.articleRepo.ListByAuthorIDs(followeeIDs, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.annotateList(articles, viewer)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetBySlug returns the viewer-annotated article, or ErrNotFound.
func (s *ArticleService) GetBySlug(slug string, viewer *models.User) (models.ArticleView, error) {
	article, err := s.findBySlug(slug)
	if err != nil {
		return models.ArticleView{}, err
	}
	return s.annotate(article, viewer)
}

// Create persists a new article for the author. The slug is derived
// from the title plus a short random suffix; a collision is possible
// but not retried.
func (s *ArticleService) Create(author *models.User, input CreateArticleInput) (models.ArticleView, error) {
	article := &models.Article{
		Slug:        generateSlug(input.Title),
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		TagList:     models.TagList(input.TagList),
		AuthorID:    author.ID,
		Author:      author,
	}

	if err := s.articleRepo.Create(article); err != nil {
		return models.ArticleView{}, err
	}

	s.publishEvent("article.created", map[string]interface{}{
		"slug":     article.Slug,
		"title":    article.Title,
		"authorId": author.ID,
	})

	return s.annotate(article, author)
}

// Update applies a partial field merge after an ownership check.
func (s *ArticleService) Update(author *models.User, slug string, input UpdateArticleInput) (models.ArticleView, error) {
	article, err := s.findBySlug(slug)
	if err != nil {
		return models.ArticleView{}, err
	}
	if article.AuthorID != author.ID {
		return models.ArticleView{}, fmt.Errorf("article %s is not owned by %s: %w", slug, author.Username, ErrUnauthorized)
	}

	if input.Title != nil {
		article.Title = *input.Title
	}
	if input.Description != nil {
		article.Description = *input.Description
	}
	if input.Body != nil {
		article.Body = *input.Body
	}
	if input.TagList != nil {
		article.TagList = models.TagList(input.TagList)
	}

	if err := s.articleRepo.Update(article); err != nil {
		return models.ArticleView{}, err
	}
	return s.annotate(article, author)
}

// Delete removes an article and its comments after an ownership check,
// returning the deleted snapshot.
func (s *ArticleService) Delete(author *models.User, slug string) (models.ArticleView, error) {
	article, err := s.findBySlug(slug)
	if err != nil {
		return models.ArticleView{}, err
	}
	if article.AuthorID != author.ID {
		return models.ArticleView{}, fmt.Errorf("article %s is not owned by %s: %w", slug, author.Username, ErrUnauthorized)
	}

	snapshot, err := s.annotate(article, author)
	if err != nil {
		return models.ArticleView{}, err
	}
	if err := s.articleRepo.Delete(article.ID); err != nil {
		return models.ArticleView{}, err
	}
	return snapshot, nil
}

// Favorite marks an article as favorited by the user. Favoriting an
// already-favorited article is a no-op that still returns the current
// state; the counter is incremented at most once.
func (s *ArticleService) Favorite(user *models.User, slug string) (models.ArticleView, error) {
	return s.toggleFavorite(user, slug, true)
}

// Unfavorite removes a favorite. Unfavoriting a non-favorited article
// is a safe no-op and the counter never goes below zero.
func (s *ArticleService) Unfavorite(user *models.User, slug string) (models.ArticleView, error) {
	return s.toggleFavorite(user, slug, false)
}

func (s *ArticleService) toggleFavorite(user *models.User, slug string, favorite bool) (models.ArticleView, error) {
	article, err := s.findBySlug(slug)
	if err != nil {
		return models.ArticleView{}, err
	}

	var changed bool
	if favorite {
		changed, err = s.favoriteRepo.Add(user.ID, article.ID)
	} else {
		changed, err = s.favoriteRepo.Remove(user.ID, article.ID)
	}
	if err != nil {
		return models.ArticleView{}, err
	}

	if changed {
		// Re-read so the view reflects the counter written in the
		// edge transaction.
		article, err = s.articleRepo.GetByID(article.ID)
		if err != nil {
			return models.ArticleView{}, err
		}
	}
	return s.annotate(article, user)
}

// AddComment creates a comment owned by the user under the article.
func (s *ArticleService) AddComment(user *models.User, slug, body string) (models.CommentView, error) {
	article, err := s.findBySlug(slug)
	if err != nil {
		return models.CommentView{}, err
	}

	comment := &models.Comment{
		Body:      body,
		AuthorID:  user.ID,
		Author:    user,
		ArticleID: article.ID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return models.CommentView{}, err
	}

	following := false
	return comment.ToView(user.ToProfile(&following)), nil
}

// GetComments returns an article's comments, with the comment authors
// annotated relative to the viewer.
func (s *ArticleService) GetComments(slug string, viewer *models.User) ([]models.CommentView, error) {
	article, err := s.findBySlug(slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByArticleID(article.ID)
	if err != nil {
		return nil, err
	}

	var followees map[string]bool
	if viewer != nil {
		followees, err = s.followeeSet(viewer)
		if err != nil {
			return nil, err
		}
	}

	views := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		author := comments[i].Author
		if author == nil {
			author, err = s.userRepo.GetByID(comments[i].AuthorID)
			if err != nil {
				return nil, err
			}
		}
		var following *bool
		if viewer != nil {
			f := followees[author.ID]
			following = &f
		}
		views = append(views, comments[i].ToView(author.ToProfile(following)))
	}
	return views, nil
}

// DeleteComment removes a comment after checking the caller authored
// it, and returns the updated article view.
func (s *ArticleService) DeleteComment(user *models.User, slug, commentID string) (models.ArticleView, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ArticleView{}, fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
		}
		return models.ArticleView{}, err
	}
	if comment.AuthorID != user.ID {
		return models.ArticleView{}, fmt.Errorf("comment %s is not owned by %s: %w", commentID, user.Username, ErrUnauthorized)
	}

	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return models.ArticleView{}, err
	}
	return s.GetBySlug(slug, user)
}

// findBySlug fetches an article, mapping a repository miss to ErrNotFound.
func (s *ArticleService) findBySlug(slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("article %s: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	return article, nil
}

// resolveUsername maps a username to a user id, degrading to an
// impossible id when the user does not exist so the listing comes back
// empty instead of erroring.
func (s *ArticleService) resolveUsername(username string) string {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil || user == nil {
		return impossibleUserID
	}
	return user.ID
}

// annotate builds the viewer-relative view of a single article.
func (s *ArticleService) annotate(article *models.Article, viewer *models.User) (models.ArticleView, error) {
	author := article.Author
	if author == nil {
		var err error
		author, err = s.userRepo.GetByID(article.AuthorID)
		if err != nil {
			return models.ArticleView{}, err
		}
	}

	var favorited, following *bool
	if viewer != nil {
		fav, err := s.favoriteRepo.IsFavorited(viewer.ID, article.ID)
		if err != nil {
			return models.ArticleView{}, err
		}
		fol, err := s.followRepo.IsFollowing(viewer.ID, author.ID)
		if err != nil {
			return models.ArticleView{}, err
		}
		favorited, following = &fav, &fol
	}
	return article.ToView(author.ToProfile(following), favorited), nil
}

// annotateList builds viewer-relative views for a page of articles,
// resolving the viewer's favorite and followee sets once.
func (s *ArticleService) annotateList(articles []models.Article, viewer *models.User) ([]models.ArticleView, error) {
	var favorites, followees map[string]bool
	if viewer != nil {
		favIDs, err := s.favoriteRepo.ArticleIDsForUser(viewer.ID)
		if err != nil {
			return nil, err
		}
		favorites = make(map[string]bool, len(favIDs))
		for _, id := range favIDs {
			favorites[id] = true
		}
		followees, err = s.followeeSet(viewer)
		if err != nil {
			return nil, err
		}
	}

	views := make([]models.ArticleView, 0, len(articles))
	for i := range articles {
		article := &articles[i]
		author := article.Author
		if author == nil {
			var err error
			author, err = s.userRepo.GetByID(article.AuthorID)
			if err != nil {
				return nil, err
			}
		}
		var favorited, following *bool
		if viewer != nil {
			fav := favorites[article.ID]
			fol := followees[author.ID]
			favorited, following = &fav, &fol
		}
		views = append(views, article.ToView(author.ToProfile(following), favorited))
	}
	return views, nil
}

func (s *ArticleService) followeeSet(viewer *models.User) (map[string]bool, error) {
	ids, err := s.followRepo.FolloweeIDs(viewer.ID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// publishEvent sends a blog event to RabbitMQ. Failures are logged and
// never fail the request.
func (s *ArticleService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

// generateSlug lowercases and hyphenates a title and appends a short
// random base-36 suffix. Collisions are possible and not retried.
func generateSlug(title string) string {
	base := slugInvalidChars.ReplaceAllString(strings.ToLower(title), "-")
	base = strings.Trim(base, "-")
	suffix := strconv.FormatInt(rand.Int63n(36*36*36*36*36*36), 36)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
