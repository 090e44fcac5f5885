package repositories

// FollowRepository defines the interface for the follow edge table.
// Follow and Unfollow are idempotent: re-following is a no-op and
// unfollowing an absent edge is a safe no-op.
type FollowRepository interface {
	Follow(followerID, followeeID string) error
	Unfollow(followerID, followeeID string) error
	IsFollowing(followerID, followeeID string) (bool, error)
	FolloweeIDs(followerID string) ([]string, error)
}
