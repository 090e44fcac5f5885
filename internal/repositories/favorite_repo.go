package repositories

// FavoriteRepository defines the interface for the favorite edge table.
// Add and Remove mutate the edge and the article's denormalized
// favorites_count inside a single storage transaction, and report
// whether anything actually changed so callers stay idempotent.
type FavoriteRepository interface {
	Add(userID, articleID string) (bool, error)
	Remove(userID, articleID string) (bool, error)
	IsFavorited(userID, articleID string) (bool, error)
	ArticleIDsForUser(userID string) ([]string, error)
}
