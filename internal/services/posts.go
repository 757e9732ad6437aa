package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/session"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

// PostInput is what a caller submits to create a post.
type PostInput struct {
	Title    string          `json:"post_title"`
	Content  string          `json:"content"`
	ModuleID domain.RecordID `json:"module_id"`
}

// PostDetail is one post as its detail page shows it.
type PostDetail struct {
	domain.Post
	Likes    domain.LikeState `json:"likes"`
	Comments []domain.Comment `json:"comments"`
}

// PostService creates, deletes and lists posts and keeps the author's
// session post count in step.
type PostService struct {
	Client     *upstream.Client
	Sessions   *session.Registry
	Engagement *EngagementService
	Log        zerolog.Logger
}

// Create validates in and creates a post authored by the caller.
func (s *PostService) Create(ctx context.Context, who Caller, in PostInput) (domain.Post, error) {
	title := strings.TrimSpace(norm.NFC.String(in.Title))
	content := strings.TrimSpace(norm.NFC.String(in.Content))
	switch {
	case !who.RecordID.Valid():
		return domain.Post{}, invalid("user_id", "is required")
	case !in.ModuleID.Valid():
		return domain.Post{}, invalid("module_id", "must be a positive id")
	case utf8.RuneCountInString(title) < 2:
		return domain.Post{}, invalid("post_title", "must be at least 2 characters")
	case content == "":
		return domain.Post{}, invalid("content", "must not be empty")
	}

	p, err := s.Client.Posts().Create(ctx, upstream.PostInput{
		Title:    title,
		Content:  content,
		ModuleID: in.ModuleID,
		Author:   who.RecordID,
	})
	if err != nil {
		return domain.Post{}, err
	}
	s.Sessions.Dispatch(who.RecordID, session.IncPostCount{})
	return p, nil
}

// Delete removes a post. Only its author or an admin may delete it, and
// only the author's post count goes down.
func (s *PostService) Delete(ctx context.Context, who Caller, id domain.RecordID) error {
	if !id.Valid() {
		return invalid("post_id", "must be a positive id")
	}
	p, err := s.Client.Posts().ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorOrAdmin(ctx, s.Client, who, p.Author); err != nil {
		return err
	}
	if err := s.Client.Posts().Delete(ctx, id); err != nil {
		return err
	}
	if p.Author == who.RecordID {
		s.Sessions.Dispatch(who.RecordID, session.DecPostCount{})
	}
	s.Log.Debug().Int64("post_id", int64(id)).Int64("user_id", int64(who.RecordID)).
		Bool("own", p.Author == who.RecordID).Msg("post deleted")
	return nil
}

// Get returns a post with its author name, the caller's like state and
// the comment list. The three reads run concurrently.
func (s *PostService) Get(ctx context.Context, who Caller, id domain.RecordID) (PostDetail, error) {
	if !id.Valid() {
		return PostDetail{}, invalid("post_id", "must be a positive id")
	}
	var d PostDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Client.Posts().ByID(gctx, id)
		if err != nil {
			return err
		}
		p.AuthorName = "User " + p.Author.String()
		if u, err := s.Client.Users().ByRecordID(gctx, p.Author); err == nil {
			p.AuthorName = u.DisplayName()
		} else {
			s.Log.Warn().Err(err).Int64("user_id", int64(p.Author)).Msg("post author unavailable")
		}
		d.Post = p
		return nil
	})
	g.Go(func() error {
		st, err := s.Engagement.Likes(gctx, who.RecordID, id)
		d.Likes = st
		return err
	})
	g.Go(func() error {
		list, err := s.Engagement.Comments(gctx, id)
		if errors.Is(err, upstream.ErrNotFound) {
			list, err = []domain.Comment{}, nil
		}
		d.Comments = list
		return err
	})
	if err := g.Wait(); err != nil {
		return PostDetail{}, err
	}
	if d.Comments == nil {
		d.Comments = []domain.Comment{}
	}
	return d, nil
}

// ListByUser returns the caller's own posts. A user without posts yields
// an empty list even when the service answers 404.
func (s *PostService) ListByUser(ctx context.Context, who Caller) ([]domain.Post, error) {
	if !who.RecordID.Valid() {
		return nil, invalid("user_id", "is required")
	}
	posts, err := s.Client.Posts().ByUser(ctx, who.RecordID)
	if errors.Is(err, upstream.ErrNotFound) {
		return []domain.Post{}, nil
	}
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	s.fillNames(ctx, posts)
	return posts, nil
}

// ListByModule returns a module's posts with author names filled in. A
// module without posts yields an empty list even when the service answers
// 404.
func (s *PostService) ListByModule(ctx context.Context, module domain.RecordID) ([]domain.Post, error) {
	if !module.Valid() {
		return nil, invalid("module_id", "must be a positive id")
	}
	posts, err := s.Client.Posts().ByModule(ctx, module)
	if errors.Is(err, upstream.ErrNotFound) {
		return []domain.Post{}, nil
	}
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	s.fillNames(ctx, posts)
	return posts, nil
}

func (s *PostService) fillNames(ctx context.Context, posts []domain.Post) {
	names := authorNames(ctx, s.Client, s.Log)
	for i := range posts {
		posts[i].AuthorName = nameOr(names, posts[i].Author)
	}
}
