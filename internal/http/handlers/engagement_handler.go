// Like and comment handlers.
//
// Like counts are always taken from a fresh read of the post's likes, never
// from a locally adjusted number.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/domain"
)

// CommentRequest is the JSON payload for adding a comment.
type CommentRequest struct {
	Content string `json:"content" example:"Great write-up"`
}

// PostLikes godoc
// @ID          postLikes
// @Summary     Like state of a post for the caller
// @Tags        Engagement
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Post record id"
// @Success     200  {object}  domain.LikeState
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts/{id}/likes [get]
func (h *Handlers) PostLikes(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	st, err := h.engagement.Likes(c.Request.Context(), who.RecordID, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// ToggleLike godoc
// @ID          toggleLike
// @Summary     Like or unlike a post
// @Description Removes the caller's like if present, adds one otherwise, then re-reads the likes.
// @Tags        Engagement
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Post record id"
// @Success     200  {object}  domain.LikeState
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts/{id}/like [post]
func (h *Handlers) ToggleLike(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	st, err := h.engagement.ToggleLike(c.Request.Context(), who.RecordID, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// ListComments godoc
// @ID          listComments
// @Summary     Comments on a post, with author names
// @Tags        Engagement
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Post record id"
// @Success     200  {array}   domain.Comment
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	list, err := h.engagement.Comments(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

// AddComment godoc
// @ID          addComment
// @Summary     Comment on a post
// @Tags        Engagement
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  int                      true   "Caller record id"
// @Param       Idempotency-Key  header  string                   false  "Replay key"
// @Param       id               path    int                      true   "Post record id"
// @Param       body             body    handlers.CommentRequest  true   "Comment"
// @Success     201  {object}  domain.Comment
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or too long"
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts/{id}/comments [post]
func (h *Handlers) AddComment(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	cm, err := h.engagement.AddComment(c.Request.Context(), who.RecordID, id, req.Content)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, cm)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Tags        Engagement
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Comment record id"
// @Param       post_id    query   int  true  "Post the comment belongs to"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author or an admin"
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /comments/{id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	post, err := domain.ParseRecordID(c.Query("post_id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "post_id must be a positive integer")
		return
	}
	if err := h.engagement.DeleteComment(c.Request.Context(), who, post, id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
