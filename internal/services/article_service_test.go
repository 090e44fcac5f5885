package services_test

import (
	"fmt"
	"regexp"
	"testing"

	"conduit/internal/models"
	"conduit/internal/repositories"
	"conduit/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockArticleRepository is a mock implementation of repositories.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(article *models.Article) error {
	args := m.Called(article)
	return args.Error(0)
}

func (m *MockArticleRepository) GetBySlug(slug string) (*models.Article, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) GetByID(id string) (*models.Article, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) Update(article *models.Article) error {
	args := m.Called(article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockArticleRepository) List(filter repositories.ArticleFilter) ([]models.Article, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockArticleRepository) ListByAuthorIDs(authorIDs []string, limit, offset int) ([]models.Article, int64, error) {
	args := m.Called(authorIDs, limit, offset)
	return args.Get(0).([]models.Article), args.Get(1).(int64), args.Error(2)
}

// MockFavoriteRepository is a mock implementation of repositories.FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(userID, articleID string) (bool, error) {
	args := m.Called(userID, articleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Remove(userID, articleID string) (bool, error) {
	args := m.Called(userID, articleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) IsFavorited(userID, articleID string) (bool, error) {
	args := m.Called(userID, articleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) ArticleIDsForUser(userID string) ([]string, error) {
	args := m.Called(userID)
	return args.Get(0).([]string), args.Error(1)
}

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByArticleID(articleID string) ([]models.Comment, error) {
	args := m.Called(articleID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

type articleServiceMocks struct {
	articleRepo  *MockArticleRepository
	userRepo     *MockUserRepository
	commentRepo  *MockCommentRepository
	favoriteRepo *MockFavoriteRepository
	followRepo   *MockFollowRepository
}

func newArticleService() (*services.ArticleService, articleServiceMocks) {
	m := articleServiceMocks{
		articleRepo:  new(MockArticleRepository),
		userRepo:     new(MockUserRepository),
		commentRepo:  new(MockCommentRepository),
		favoriteRepo: new(MockFavoriteRepository),
		followRepo:   new(MockFollowRepository),
	}
	svc := services.NewArticleService(m.articleRepo, m.userRepo, m.commentRepo, m.favoriteRepo, m.followRepo, nil)
	return svc, m
}

func TestArticleService_Create_GeneratesSlug(t *testing.T) {
	svc, m := newArticleService()
	author := &models.User{ID: "user-1", Username: "alice"}

	m.articleRepo.On("Create", mock.AnythingOfType("*models.Article")).Return(nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-1", mock.Anything).Return(false, nil).Once()
	m.followRepo.On("IsFollowing", "user-1", "user-1").Return(false, nil).Once()

	view, err := svc.Create(author, services.CreateArticleInput{
		Title:       "A B",
		Description: "desc",
		Body:        "body",
		TagList:     []string{"go", "testing"},
	})
	assert.NoError(t, err)
	// Lowercased, hyphenated title plus a random base-36 suffix.
	assert.Regexp(t, regexp.MustCompile(`^a-b-[0-9a-z]{1,6}$`), view.Slug)
	assert.Equal(t, "A B", view.Title)
	assert.Equal(t, models.TagList{"go", "testing"}, view.TagList)
	assert.Equal(t, "alice", view.Author.Username)
	if assert.NotNil(t, view.Favorited) {
		assert.False(t, *view.Favorited)
	}
	m.articleRepo.AssertExpectations(t)

	// Two articles with the same title get distinct slugs (random suffix).
	m.articleRepo.On("Create", mock.AnythingOfType("*models.Article")).Return(nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-1", mock.Anything).Return(false, nil).Once()
	m.followRepo.On("IsFollowing", "user-1", "user-1").Return(false, nil).Once()
	second, err := svc.Create(author, services.CreateArticleInput{Title: "A B", Body: "body"})
	assert.NoError(t, err)
	assert.NotEqual(t, view.Slug, second.Slug)
}

func TestArticleService_GetBySlug_NotFound(t *testing.T) {
	svc, m := newArticleService()

	m.articleRepo.On("GetBySlug", "missing").
		Return(nil, fmt.Errorf("article with slug missing: %w", repositories.ErrNotFound)).Once()

	_, err := svc.GetBySlug("missing", nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
	m.articleRepo.AssertExpectations(t)
}

func TestArticleService_Update_OwnershipCheck(t *testing.T) {
	svc, m := newArticleService()
	owner := &models.User{ID: "user-1", Username: "alice"}
	intruder := &models.User{ID: "user-2", Username: "mallory"}
	article := &models.Article{ID: "art-1", Slug: "a-b-xyz", Title: "A B", AuthorID: "user-1", Author: owner}

	// A non-author must not be able to update.
	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	newTitle := "Hijacked"
	_, err := svc.Update(intruder, "a-b-xyz", services.UpdateArticleInput{Title: &newTitle})
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// The author applies a partial merge; untouched fields survive.
	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	m.articleRepo.On("Update", mock.AnythingOfType("*models.Article")).Return(nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-1", "art-1").Return(false, nil).Once()
	m.followRepo.On("IsFollowing", "user-1", "user-1").Return(false, nil).Once()
	newBody := "updated body"
	view, err := svc.Update(owner, "a-b-xyz", services.UpdateArticleInput{Body: &newBody})
	assert.NoError(t, err)
	assert.Equal(t, "A B", view.Title)
	assert.Equal(t, "updated body", view.Body)
	assert.Equal(t, "a-b-xyz", view.Slug) // slug never regenerated
	m.articleRepo.AssertExpectations(t)
}

func TestArticleService_Delete_OwnershipCheck(t *testing.T) {
	svc, m := newArticleService()
	owner := &models.User{ID: "user-1", Username: "alice"}
	intruder := &models.User{ID: "user-2", Username: "mallory"}
	article := &models.Article{ID: "art-1", Slug: "a-b-xyz", AuthorID: "user-1", Author: owner}

	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	_, err := svc.Delete(intruder, "a-b-xyz")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-1", "art-1").Return(false, nil).Once()
	m.followRepo.On("IsFollowing", "user-1", "user-1").Return(false, nil).Once()
	m.articleRepo.On("Delete", "art-1").Return(nil).Once()
	snapshot, err := svc.Delete(owner, "a-b-xyz")
	assert.NoError(t, err)
	assert.Equal(t, "a-b-xyz", snapshot.Slug)
	m.articleRepo.AssertExpectations(t)
}

func TestArticleService_Favorite_Idempotent(t *testing.T) {
	svc, m := newArticleService()
	author := &models.User{ID: "user-1", Username: "alice"}
	viewer := &models.User{ID: "user-2", Username: "bob"}
	article := &models.Article{ID: "art-1", Slug: "a-b-xyz", AuthorID: "user-1", Author: author}
	bumped := &models.Article{ID: "art-1", Slug: "a-b-xyz", AuthorID: "user-1", Author: author, FavoritesCount: 1}

	// First favorite mutates the edge and re-reads the counter.
	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	m.favoriteRepo.On("Add", "user-2", "art-1").Return(true, nil).Once()
	m.articleRepo.On("GetByID", "art-1").Return(bumped, nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-2", "art-1").Return(true, nil).Once()
	m.followRepo.On("IsFollowing", "user-2", "user-1").Return(false, nil).Once()

	view, err := svc.Favorite(viewer, "a-b-xyz")
	assert.NoError(t, err)
	assert.Equal(t, 1, view.FavoritesCount)
	if assert.NotNil(t, view.Favorited) {
		assert.True(t, *view.Favorited)
	}

	// Second favorite is a no-op: no re-read, counter unchanged.
	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(bumped, nil).Once()
	m.favoriteRepo.On("Add", "user-2", "art-1").Return(false, nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-2", "art-1").Return(true, nil).Once()
	m.followRepo.On("IsFollowing", "user-2", "user-1").Return(false, nil).Once()

	view, err = svc.Favorite(viewer, "a-b-xyz")
	assert.NoError(t, err)
	assert.Equal(t, 1, view.FavoritesCount)
	m.articleRepo.AssertExpectations(t)
	m.favoriteRepo.AssertExpectations(t)
}

func TestArticleService_Unfavorite_SafeNoOp(t *testing.T) {
	svc, m := newArticleService()
	author := &models.User{ID: "user-1", Username: "alice"}
	viewer := &models.User{ID: "user-2", Username: "bob"}
	article := &models.Article{ID: "art-1", Slug: "a-b-xyz", AuthorID: "user-1", Author: author}

	// Unfavoriting something never favorited changes nothing.
	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	m.favoriteRepo.On("Remove", "user-2", "art-1").Return(false, nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-2", "art-1").Return(false, nil).Once()
	m.followRepo.On("IsFollowing", "user-2", "user-1").Return(false, nil).Once()

	view, err := svc.Unfavorite(viewer, "a-b-xyz")
	assert.NoError(t, err)
	assert.Equal(t, 0, view.FavoritesCount)
	if assert.NotNil(t, view.Favorited) {
		assert.False(t, *view.Favorited)
	}
	m.favoriteRepo.AssertExpectations(t)
}

func TestArticleService_Favorite_NotFound(t *testing.T) {
	svc, m := newArticleService()
	viewer := &models.User{ID: "user-2", Username: "bob"}

	m.articleRepo.On("GetBySlug", "missing").
		Return(nil, fmt.Errorf("article with slug missing: %w", repositories.ErrNotFound)).Once()

	_, err := svc.Favorite(viewer, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestArticleService_Feed_EmptyWithoutFollowees(t *testing.T) {
	svc, m := newArticleService()
	viewer := &models.User{ID: "user-1", Username: "alice"}

	m.followRepo.On("FolloweeIDs", "user-1").Return([]string{}, nil).Once()

	articles, total, err := svc.Feed(viewer, 20, 0)
	assert.NoError(t, err)
	assert.Empty(t, articles)
	assert.Equal(t, int64(0), total)
	// The article repository must not even be queried.
	m.articleRepo.AssertNotCalled(t, "ListByAuthorIDs", mock.Anything, mock.Anything, mock.Anything)
	m.followRepo.AssertExpectations(t)
}

func TestArticleService_List_UnknownUsernameDegrades(t *testing.T) {
	svc, m := newArticleService()

	// An unknown author username must degrade to an impossible id
	// filter, yielding an empty page rather than an error.
	m.userRepo.On("GetByUsername", "ghost").
		Return(nil, fmt.Errorf("user with username ghost: %w", repositories.ErrNotFound)).Once()
	m.articleRepo.On("List", mock.MatchedBy(func(f repositories.ArticleFilter) bool {
		return f.AuthorID == "0"
	})).Return([]models.Article{}, int64(0), nil).Once()

	articles, total, err := svc.List(services.ListArticlesQuery{Author: "ghost", Limit: 20}, nil)
	assert.NoError(t, err)
	assert.Empty(t, articles)
	assert.Equal(t, int64(0), total)
	m.articleRepo.AssertExpectations(t)
}

func TestArticleService_DeleteComment(t *testing.T) {
	svc, m := newArticleService()
	author := &models.User{ID: "user-1", Username: "alice"}
	commenter := &models.User{ID: "user-2", Username: "bob"}
	article := &models.Article{ID: "art-1", Slug: "a-b-xyz", AuthorID: "user-1", Author: author}
	comment := &models.Comment{ID: "com-1", Body: "nice", AuthorID: "user-2", ArticleID: "art-1"}

	// Missing comment
	m.commentRepo.On("GetByID", "nope").
		Return(nil, fmt.Errorf("comment with ID nope: %w", repositories.ErrNotFound)).Once()
	_, err := svc.DeleteComment(commenter, "a-b-xyz", "nope")
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Only the comment author may delete, even the article author may not.
	m.commentRepo.On("GetByID", "com-1").Return(comment, nil).Once()
	_, err = svc.DeleteComment(author, "a-b-xyz", "com-1")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// The comment author deletes and gets the updated article back.
	m.commentRepo.On("GetByID", "com-1").Return(comment, nil).Once()
	m.commentRepo.On("Delete", "com-1").Return(nil).Once()
	m.articleRepo.On("GetBySlug", "a-b-xyz").Return(article, nil).Once()
	m.favoriteRepo.On("IsFavorited", "user-2", "art-1").Return(false, nil).Once()
	m.followRepo.On("IsFollowing", "user-2", "user-1").Return(false, nil).Once()
	view, err := svc.DeleteComment(commenter, "a-b-xyz", "com-1")
	assert.NoError(t, err)
	assert.Equal(t, "a-b-xyz", view.Slug)
	m.commentRepo.AssertExpectations(t)
}

func TestArticleService_List_ViewerAnnotation(t *testing.T) {
	svc, m := newArticleService()
	author := &models.User{ID: "user-1", Username: "alice"}
	viewer := &models.User{ID: "user-2", Username: "bob"}
	articles := []models.Article{
		{ID: "art-1", Slug: "first-x", AuthorID: "user-1", Author: author, FavoritesCount: 1},
		{ID: "art-2", Slug: "second-y", AuthorID: "user-1", Author: author},
	}

	m.articleRepo.On("List", mock.Anything).Return(articles, int64(2), nil).Once()
	m.favoriteRepo.On("ArticleIDsForUser", "user-2").Return([]string{"art-1"}, nil).Once()
	m.followRepo.On("FolloweeIDs", "user-2").Return([]string{"user-1"}, nil).Once()

	views, total, err := svc.List(services.ListArticlesQuery{Limit: 20}, viewer)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, views, 2)
	assert.True(t, *views[0].Favorited)
	assert.False(t, *views[1].Favorited)
	assert.True(t, *views[0].Author.Following)

	// Without a viewer the flags serialize as null, not false.
	m.articleRepo.On("List", mock.Anything).Return(articles, int64(2), nil).Once()
	views, _, err = svc.List(services.ListArticlesQuery{Limit: 20}, nil)
	assert.NoError(t, err)
	assert.Nil(t, views[0].Favorited)
	assert.Nil(t, views[0].Author.Following)
}
