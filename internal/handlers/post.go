package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/services"
)

type PostHandler interface {
	CreatePost(c *gin.Context)
	GetPost(c *gin.Context)
	ListPosts(c *gin.Context)
	UpdatePost(c *gin.Context)
	DeletePost(c *gin.Context)
	LikePost(c *gin.Context)
	UnlikePost(c *gin.Context)
	AddComment(c *gin.Context)
	DeleteComment(c *gin.Context)
	LikeComment(c *gin.Context)
	UnlikeComment(c *gin.Context)
}

type postHandler struct {
	log   *logger.Logger
	posts services.PostService
}

func NewPostHandler(log *logger.Logger, posts services.PostService) PostHandler {
	return &postHandler{
		log:   log.With("handler", "PostHandler"),
		posts: posts,
	}
}

func (h *postHandler) CreatePost(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var input services.CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	post, err := h.posts.CreatePost(c.Request.Context(), actorID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *postHandler) GetPost(c *gin.Context) {
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	post, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// ListPosts supports ?author=<id> and ?category=<name> filters.
func (h *postHandler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	if author := c.Query("author"); author != "" {
		authorID, err := pathUUID(author, "author")
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		posts, err := h.posts.ListPostsByAuthor(ctx, authorID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, posts)
		return
	}
	if category := c.Query("category"); category != "" {
		posts, err := h.posts.ListPostsByCategory(ctx, category)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, posts)
		return
	}
	posts, err := h.posts.ListPosts(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *postHandler) UpdatePost(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var patch services.PostPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	post, err := h.posts.UpdatePost(c.Request.Context(), postID, actorID, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) DeletePost(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.posts.DeletePost(c.Request.Context(), postID, actorID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *postHandler) LikePost(c *gin.Context)   { h.toggleLike(c, true) }
func (h *postHandler) UnlikePost(c *gin.Context) { h.toggleLike(c, false) }

func (h *postHandler) toggleLike(c *gin.Context, like bool) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	post, err := h.posts.ToggleLike(c.Request.Context(), postID, actorID, like)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) AddComment(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.log, apierr.Validation("invalid request body"))
		return
	}
	post, err := h.posts.AddComment(c.Request.Context(), postID, actorID, body.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *postHandler) DeleteComment(c *gin.Context) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	commentID, err := pathID(c, "commentID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	post, err := h.posts.DeleteComment(c.Request.Context(), postID, commentID, actorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) LikeComment(c *gin.Context)   { h.toggleCommentLike(c, true) }
func (h *postHandler) UnlikeComment(c *gin.Context) { h.toggleCommentLike(c, false) }

func (h *postHandler) toggleCommentLike(c *gin.Context, like bool) {
	actorID, err := callerID(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	postID, err := pathID(c, "postID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	commentID, err := pathID(c, "commentID")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	post, err := h.posts.ToggleCommentLike(c.Request.Context(), postID, commentID, actorID, like)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
