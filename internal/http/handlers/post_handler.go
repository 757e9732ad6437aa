package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/spreadit-gateway/internal/services"
)

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post in a module
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       X-User-ID        header  int                 true   "Caller record id"
// @Param       Idempotency-Key  header  string              false  "Replay key"
// @Param       body             body    services.PostInput  true   "Post"
// @Success     201  {object}  domain.Post
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	var in services.PostInput
	if !bindJSON(c, &in) {
		return
	}
	p, err := h.posts.Create(c.Request.Context(), who, in)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, p)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post
// @Tags        Posts
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Post record id"
// @Success     204
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse  "Not the author or an admin"
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), who, id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ModulePosts godoc
// @ID          modulePosts
// @Summary     Posts of a module, with author names
// @Tags        Posts
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Module record id"
// @Success     200  {array}   domain.Post
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /modules/{id}/posts [get]
func (h *Handlers) ModulePosts(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	posts, err := h.posts.ListByModule(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, posts)
}

// GetPost godoc
// @ID          getPost
// @Summary     One post with author name, like state and comments
// @Tags        Posts
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Param       id         path    int  true  "Post record id"
// @Success     200  {object}  services.PostDetail
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	id, valid := pathID(c)
	if !valid {
		return
	}
	d, err := h.posts.Get(c.Request.Context(), who, id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// MyPosts godoc
// @ID          myPosts
// @Summary     The caller's own posts
// @Tags        Posts
// @Produce     json
// @Param       X-User-ID  header  int  true  "Caller record id"
// @Success     200  {array}   domain.Post
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Router      /me/posts [get]
func (h *Handlers) MyPosts(c *gin.Context) {
	who, found := caller(c)
	if !found {
		return
	}
	posts, err := h.posts.ListByUser(c.Request.Context(), who)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, posts)
}
