package models

import "time"

// The view types below are the JSON projections returned by the API.
// Viewer-relative fields (Favorited, Following) are pointers so an
// unauthenticated request serializes them as null instead of false.

// Profile is the public view of a user.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following *bool  `json:"following"`
}

// ToProfile projects a user into its public profile, annotated relative
// to the viewer. Pass nil when there is no authenticated viewer.
func (u *User) ToProfile(following *bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}

// AuthUser is the identity view returned by the auth endpoints,
// carrying a freshly signed token.
type AuthUser struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Token    string `json:"token"`
}

// ToAuthUser projects a user into its identity view.
func (u *User) ToAuthUser(token string) AuthUser {
	return AuthUser{
		Email:    u.Email,
		Username: u.Username,
		Bio:      u.Bio,
		Image:    u.Image,
		Token:    token,
	}
}

// ArticleView is the serialized article shape, with internal ids
// stripped and the author embedded as a profile.
type ArticleView struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        TagList   `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      *bool     `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         Profile   `json:"author"`
}

// ToView projects an article for a response. The caller supplies the
// author profile and the viewer-relative favorited flag.
func (a *Article) ToView(author Profile, favorited *bool) ArticleView {
	tags := a.TagList
	if tags == nil {
		tags = TagList{}
	}
	return ArticleView{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: a.FavoritesCount,
		Author:         author,
	}
}

// CommentView is the serialized comment shape.
type CommentView struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Profile   `json:"author"`
}

// ToView projects a comment for a response.
func (c *Comment) ToView(author Profile) CommentView {
	return CommentView{
		ID:        c.ID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    author,
	}
}
