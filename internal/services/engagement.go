package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/spreadit-gateway/internal/cache"
	"github.com/tbourn/spreadit-gateway/internal/domain"
	"github.com/tbourn/spreadit-gateway/internal/observability"
	"github.com/tbourn/spreadit-gateway/internal/upstream"
)

type likeKey struct {
	user domain.RecordID
	post domain.RecordID
}

// EngagementService computes like and comment state for posts. The post
// service exposes likes only as one flat collection, so every aggregate is
// re-derived from a fresh fetch rather than adjusted locally.
type EngagementService struct {
	Client *upstream.Client
	Log    zerolog.Logger

	// MaxCommentRunes caps comment length; 0 disables the check.
	MaxCommentRunes int

	locks *keyLock[likeKey]
	seen  *cache.Memory[[]domain.Like] // last like set each user saw per post
}

const seenTTL = 5 * time.Minute

// NewEngagementService returns an EngagementService with a 2000 rune
// comment limit.
func NewEngagementService(c *upstream.Client, log zerolog.Logger) *EngagementService {
	return &EngagementService{
		Client:          c,
		Log:             log,
		MaxCommentRunes: 2000,
		locks:           newKeyLock[likeKey](),
		seen:            cache.NewMemory[[]domain.Like](seenTTL),
	}
}

func seenKey(user, post domain.RecordID) cache.Key {
	return cache.Key{UserID: user, Kind: domain.ResourceKind("likes/" + post.String())}
}

// Likes fetches the like set of a post and returns the caller's view of it.
func (s *EngagementService) Likes(ctx context.Context, user, post domain.RecordID) (domain.LikeState, error) {
	if !post.Valid() {
		return domain.LikeState{}, invalid("post_id", "must be a positive id")
	}
	likes, err := s.refresh(ctx, user, post)
	if err != nil {
		return domain.LikeState{}, err
	}
	return likeState(post, user, likes), nil
}

// ToggleLike flips the caller's like on a post based on the last-fetched
// like set (fetching it first if none was seen) and returns the state
// recomputed from a fresh fetch. Removing a like that is already gone and
// adding one that already exists both count as success.
func (s *EngagementService) ToggleLike(ctx context.Context, user, post domain.RecordID) (domain.LikeState, error) {
	switch {
	case !user.Valid():
		return domain.LikeState{}, invalid("user_id", "is required")
	case !post.Valid():
		return domain.LikeState{}, invalid("post_id", "must be a positive id")
	}

	ctx, span := observability.Tracer("services").Start(ctx, "EngagementService.ToggleLike")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(user)), attribute.Int64("post.id", int64(post)))

	release, err := s.locks.Acquire(ctx, likeKey{user, post})
	if err != nil {
		return domain.LikeState{}, err
	}
	defer release()

	likes, ok := s.lastSeen(ctx, user, post)
	if !ok {
		if likes, err = s.refresh(ctx, user, post); err != nil {
			return domain.LikeState{}, err
		}
	}

	liked := hasLike(likes, user)
	if liked {
		err = s.Client.Posts().RemoveLike(ctx, user, post)
		if errors.Is(err, upstream.ErrNotFound) || errors.Is(err, upstream.ErrConflict) {
			s.Log.Debug().Err(err).Int64("post_id", int64(post)).Msg("like already removed")
			err = nil
		}
	} else {
		err = s.Client.Posts().AddLike(ctx, user, post)
		if errors.Is(err, upstream.ErrConflict) {
			s.Log.Debug().Err(err).Int64("post_id", int64(post)).Msg("like already present")
			err = nil
		}
	}
	if err != nil {
		s.forget(ctx, user, post)
		return domain.LikeState{}, err
	}

	fresh, err := s.refresh(ctx, user, post)
	if err != nil {
		return domain.LikeState{}, err
	}
	st := likeState(post, user, fresh)
	span.SetAttributes(attribute.Bool("like.liked", st.Liked), attribute.Int("like.count", st.Count))
	return st, nil
}

// Comments lists a post's comments with author names filled in.
func (s *EngagementService) Comments(ctx context.Context, post domain.RecordID) ([]domain.Comment, error) {
	if !post.Valid() {
		return nil, invalid("post_id", "must be a positive id")
	}
	list, err := s.Client.Posts().Comments(ctx, post)
	if err != nil {
		return nil, err
	}
	names := authorNames(ctx, s.Client, s.Log)
	for i := range list {
		list[i].AuthorName = nameOr(names, list[i].UserID)
	}
	return list, nil
}

// AddComment validates content, posts the comment, then reloads the whole
// comment list and returns the new comment as the reloaded list has it.
func (s *EngagementService) AddComment(ctx context.Context, user, post domain.RecordID, content string) (domain.Comment, error) {
	content = strings.TrimSpace(norm.NFC.String(content))
	switch {
	case !user.Valid():
		return domain.Comment{}, invalid("user_id", "is required")
	case !post.Valid():
		return domain.Comment{}, invalid("post_id", "must be a positive id")
	case content == "":
		return domain.Comment{}, invalid("content", "must not be empty")
	case s.MaxCommentRunes > 0 && utf8.RuneCountInString(content) > s.MaxCommentRunes:
		return domain.Comment{}, invalid("content", "is too long")
	}

	ctx, span := observability.Tracer("services").Start(ctx, "EngagementService.AddComment")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(user)), attribute.Int64("post.id", int64(post)))

	created, err := s.Client.Posts().AddComment(ctx, user, post, content)
	if err != nil {
		return domain.Comment{}, err
	}

	list, err := s.Comments(ctx, post)
	if err != nil {
		return domain.Comment{}, err
	}
	if created.RecordID.Valid() {
		if i := slices.IndexFunc(list, func(c domain.Comment) bool { return c.RecordID == created.RecordID }); i >= 0 {
			return list[i], nil
		}
	}
	// Without an id in the create response, take the newest match.
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].UserID == user && list[i].Content == content {
			return list[i], nil
		}
	}
	created.UserID, created.PostID, created.Content = user, post, content
	return created, nil
}

// DeleteComment removes comment id from post. Only the comment's author or
// an admin may delete it. A comment that is already gone counts as deleted.
func (s *EngagementService) DeleteComment(ctx context.Context, who Caller, post, id domain.RecordID) error {
	switch {
	case !post.Valid():
		return invalid("post_id", "must be a positive id")
	case !id.Valid():
		return invalid("comment_id", "must be a positive id")
	}
	list, err := s.Client.Posts().Comments(ctx, post)
	if err != nil && !errors.Is(err, upstream.ErrNotFound) {
		return err
	}
	i := slices.IndexFunc(list, func(c domain.Comment) bool { return c.RecordID == id })
	if i < 0 {
		s.Log.Debug().Int64("comment_id", int64(id)).Msg("comment already deleted")
		return nil
	}
	if err := authorOrAdmin(ctx, s.Client, who, list[i].UserID); err != nil {
		return err
	}
	err = s.Client.Posts().DeleteComment(ctx, id)
	if errors.Is(err, upstream.ErrNotFound) {
		s.Log.Debug().Int64("comment_id", int64(id)).Msg("comment already deleted")
		return nil
	}
	return err
}

// Forget drops the like sets remembered for user.
func (s *EngagementService) Forget(user domain.RecordID) {
	s.seen.InvalidateUser(context.Background(), user)
}

func (s *EngagementService) refresh(ctx context.Context, user, post domain.RecordID) ([]domain.Like, error) {
	likes, err := s.Client.Posts().LikesForPost(ctx, post)
	if err != nil {
		s.forget(ctx, user, post)
		return nil, err
	}
	s.seen.Set(ctx, seenKey(user, post), likes, 0)
	return likes, nil
}

func (s *EngagementService) lastSeen(ctx context.Context, user, post domain.RecordID) ([]domain.Like, bool) {
	return s.seen.Get(ctx, seenKey(user, post))
}

func (s *EngagementService) forget(ctx context.Context, user, post domain.RecordID) {
	s.seen.Invalidate(ctx, seenKey(user, post))
}

func hasLike(likes []domain.Like, user domain.RecordID) bool {
	return slices.ContainsFunc(likes, func(l domain.Like) bool { return l.UserID == user })
}

func likeState(post, user domain.RecordID, likes []domain.Like) domain.LikeState {
	return domain.LikeState{PostID: post, Liked: hasLike(likes, user), Count: len(likes)}
}
