package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// PostsAPI groups the post service endpoints, including likes and comments.
type PostsAPI struct{ c *Client }

// PostInput is the create payload.
type PostInput struct {
	Title    string          `json:"post_title"`
	Content  string          `json:"content"`
	ModuleID domain.RecordID `json:"module_id"`
	Author   domain.RecordID `json:"user_id"`
}

type commentInput struct {
	UserID  domain.RecordID `json:"user_id"`
	PostID  domain.RecordID `json:"post_id"`
	Content string          `json:"content"`
}

// ByID fetches one post.
func (a *PostsAPI) ByID(ctx context.Context, id domain.RecordID) (domain.Post, error) {
	return call[domain.Post](ctx, a.c, ServicePost, http.MethodGet, "/api/post-by-id/"+id.String(), nil)
}

// ByModule lists the posts of a module.
func (a *PostsAPI) ByModule(ctx context.Context, module domain.RecordID) ([]domain.Post, error) {
	return call[[]domain.Post](ctx, a.c, ServicePost, http.MethodGet, "/api/post-by-module_id/"+module.String(), nil)
}

// ByUser lists the posts authored by a user.
func (a *PostsAPI) ByUser(ctx context.Context, user domain.RecordID) ([]domain.Post, error) {
	return call[[]domain.Post](ctx, a.c, ServicePost, http.MethodGet, "/api/post-by-user_id/"+user.String(), nil)
}

// Create adds a post.
func (a *PostsAPI) Create(ctx context.Context, in PostInput) (domain.Post, error) {
	return call[domain.Post](ctx, a.c, ServicePost, http.MethodPost, "/api/add-post", in)
}

// Delete removes a post.
func (a *PostsAPI) Delete(ctx context.Context, id domain.RecordID) error {
	_, err := a.c.Request(ctx, ServicePost, http.MethodDelete, "/api/delete-post-by-id/"+id.String(), nil)
	return err
}

// LikesForPost fetches the flat like collection and keeps the likes of one
// post. The service has no per-post or count endpoint.
func (a *PostsAPI) LikesForPost(ctx context.Context, post domain.RecordID) ([]domain.Like, error) {
	all, err := call[[]domain.Like](ctx, a.c, ServicePost, http.MethodGet, "/api/likes", nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Like, 0, len(all))
	for _, l := range all {
		if l.PostID == post {
			out = append(out, l)
		}
	}
	return out, nil
}

// AddLike records a like.
func (a *PostsAPI) AddLike(ctx context.Context, user, post domain.RecordID) error {
	_, err := a.c.Request(ctx, ServicePost, http.MethodPost, "/api/likes", domain.Like{UserID: user, PostID: post})
	return err
}

// RemoveLike deletes the (user, post) like.
func (a *PostsAPI) RemoveLike(ctx context.Context, user, post domain.RecordID) error {
	q := url.Values{}
	q.Set("user_id", user.String())
	q.Set("post_id", post.String())
	_, err := a.c.Request(ctx, ServicePost, http.MethodDelete, "/api/likes?"+q.Encode(), nil)
	return err
}

// Comments lists the comments of a post.
func (a *PostsAPI) Comments(ctx context.Context, post domain.RecordID) ([]domain.Comment, error) {
	return call[[]domain.Comment](ctx, a.c, ServicePost, http.MethodGet, "/api/comments/"+post.String(), nil)
}

// AddComment creates a comment and returns the service's copy of it.
func (a *PostsAPI) AddComment(ctx context.Context, user, post domain.RecordID, content string) (domain.Comment, error) {
	return call[domain.Comment](ctx, a.c, ServicePost, http.MethodPost, "/api/comments", commentInput{UserID: user, PostID: post, Content: content})
}

// DeleteComment removes a comment.
func (a *PostsAPI) DeleteComment(ctx context.Context, id domain.RecordID) error {
	_, err := a.c.Request(ctx, ServicePost, http.MethodDelete, "/api/comments/"+id.String(), nil)
	return err
}
