package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IT22889256/PAF/internal/apierr"
	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/repos"
	"github.com/IT22889256/PAF/internal/types"
)

// casRetries bounds how often a read-modify-write is re-run after losing a
// version race before the caller sees a Conflict.
const casRetries = 3

type CreatePostInput struct {
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls"`
	Tags      []string `json:"tags"`
	Category  string   `json:"category"`
}

// PostPatch carries partial updates: only non-nil fields are applied.
type PostPatch struct {
	Content   *string   `json:"content"`
	MediaURLs *[]string `json:"media_urls"`
	Tags      *[]string `json:"tags"`
	Category  *string   `json:"category"`
}

type PostService interface {
	CreatePost(ctx context.Context, actorID uuid.UUID, input CreatePostInput) (*types.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error)
	ListPosts(ctx context.Context) ([]*types.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*types.Post, error)
	ListPostsByCategory(ctx context.Context, category string) ([]*types.Post, error)
	UpdatePost(ctx context.Context, postID, actorID uuid.UUID, patch PostPatch) (*types.Post, error)
	DeletePost(ctx context.Context, postID, actorID uuid.UUID) error
	ToggleLike(ctx context.Context, postID, userID uuid.UUID, like bool) (*types.Post, error)
	AddComment(ctx context.Context, postID, authorID uuid.UUID, content string) (*types.Post, error)
	DeleteComment(ctx context.Context, postID, commentID, actorID uuid.UUID) (*types.Post, error)
	ToggleCommentLike(ctx context.Context, postID, commentID, userID uuid.UUID, like bool) (*types.Post, error)
}

type postService struct {
	db            *gorm.DB
	log           *logger.Logger
	postRepo      repos.PostRepo
	userRepo      repos.UserRepo
	notifications NotificationService
}

func NewPostService(db *gorm.DB, log *logger.Logger, postRepo repos.PostRepo, userRepo repos.UserRepo, notifications NotificationService) PostService {
	return &postService{
		db:            db,
		log:           log.With("service", "PostService"),
		postRepo:      postRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (ps *postService) CreatePost(ctx context.Context, actorID uuid.UUID, input CreatePostInput) (*types.Post, error) {
	if strings.TrimSpace(input.Content) == "" && len(input.MediaURLs) == 0 {
		return nil, apierr.Validation("post must have content or media")
	}

	now := time.Now().UTC()
	post := &types.Post{
		ID:        uuid.New(),
		AuthorID:  actorID,
		Content:   input.Content,
		MediaURLs: input.MediaURLs,
		Tags:      input.Tags,
		Category:  input.Category,
		Likes:     []uuid.UUID{},
		Comments:  []types.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.postRepo.Create(ctx, tx, post); err != nil {
			return err
		}
		user, err := ps.userRepo.GetByID(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if user == nil {
			return apierr.NotFound("user %s not found", actorID)
		}
		user.PostIDs, _ = types.AddID(user.PostIDs, post.ID)
		return ps.userRepo.Save(ctx, tx, user)
	}); err != nil {
		return nil, err
	}
	return post, nil
}

func (ps *postService) GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	post, err := ps.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, apierr.NotFound("post %s not found", postID)
	}
	return post, nil
}

func (ps *postService) ListPosts(ctx context.Context) ([]*types.Post, error) {
	return ps.postRepo.ListAll(ctx, nil)
}

func (ps *postService) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*types.Post, error) {
	return ps.postRepo.ListByAuthor(ctx, nil, authorID)
}

func (ps *postService) ListPostsByCategory(ctx context.Context, category string) ([]*types.Post, error) {
	return ps.postRepo.ListByCategory(ctx, nil, category)
}

func (ps *postService) UpdatePost(ctx context.Context, postID, actorID uuid.UUID, patch PostPatch) (*types.Post, error) {
	return ps.mutatePost(ctx, postID, func(post *types.Post) error {
		if post.AuthorID != actorID {
			return apierr.Unauthorized("only the author can update this post")
		}
		if patch.Content != nil {
			post.Content = *patch.Content
		}
		if patch.MediaURLs != nil {
			post.MediaURLs = *patch.MediaURLs
		}
		if strings.TrimSpace(post.Content) == "" && len(post.MediaURLs) == 0 {
			return apierr.Validation("post must have content or media")
		}
		if patch.Tags != nil {
			post.Tags = *patch.Tags
		}
		if patch.Category != nil {
			post.Category = *patch.Category
		}
		return nil
	})
}

func (ps *postService) DeletePost(ctx context.Context, postID, actorID uuid.UUID) error {
	post, err := ps.postRepo.GetByID(ctx, nil, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return apierr.NotFound("post %s not found", postID)
	}
	if post.AuthorID != actorID {
		return apierr.Unauthorized("only the author can delete this post")
	}

	// Removal is permanent; embedded comments go with the row.
	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.postRepo.Delete(ctx, tx, postID); err != nil {
			return err
		}
		user, err := ps.userRepo.GetByID(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if user == nil {
			return nil
		}
		user.PostIDs, _ = types.RemoveID(user.PostIDs, postID)
		return ps.userRepo.Save(ctx, tx, user)
	})
}

func (ps *postService) ToggleLike(ctx context.Context, postID, userID uuid.UUID, like bool) (*types.Post, error) {
	var transitioned bool
	post, err := ps.mutatePost(ctx, postID, func(post *types.Post) error {
		if like {
			post.Likes, transitioned = types.AddID(post.Likes, userID)
		} else {
			post.Likes, _ = types.RemoveID(post.Likes, userID)
			transitioned = false
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		ps.notifications.NotifyPostLike(ctx, post.ID, userID, post.AuthorID)
	}
	return post, nil
}

func (ps *postService) AddComment(ctx context.Context, postID, authorID uuid.UUID, content string) (*types.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierr.Validation("comment content required")
	}

	var comment types.Comment
	post, err := ps.mutatePost(ctx, postID, func(post *types.Post) error {
		now := time.Now().UTC()
		comment = types.Comment{
			ID:        uuid.New(),
			AuthorID:  authorID,
			Content:   content,
			Likes:     []uuid.UUID{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		post.Comments = append(post.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ps.notifications.NotifyNewComment(ctx, post.ID, authorID, post.AuthorID, content)
	return post, nil
}

func (ps *postService) DeleteComment(ctx context.Context, postID, commentID, actorID uuid.UUID) (*types.Post, error) {
	return ps.mutatePost(ctx, postID, func(post *types.Post) error {
		comment := post.FindComment(commentID)
		if comment == nil {
			return apierr.NotFound("comment %s not found", commentID)
		}
		if comment.AuthorID != actorID && post.AuthorID != actorID {
			return apierr.Unauthorized("only the comment author or the post author can delete this comment")
		}
		kept := make([]types.Comment, 0, len(post.Comments)-1)
		for _, c := range post.Comments {
			if c.ID != commentID {
				kept = append(kept, c)
			}
		}
		post.Comments = kept
		return nil
	})
}

func (ps *postService) ToggleCommentLike(ctx context.Context, postID, commentID, userID uuid.UUID, like bool) (*types.Post, error) {
	var (
		transitioned   bool
		commentOwnerID uuid.UUID
	)
	post, err := ps.mutatePost(ctx, postID, func(post *types.Post) error {
		comment := post.FindComment(commentID)
		if comment == nil {
			return apierr.NotFound("comment %s not found", commentID)
		}
		commentOwnerID = comment.AuthorID
		if like {
			comment.Likes, transitioned = types.AddID(comment.Likes, userID)
		} else {
			comment.Likes, _ = types.RemoveID(comment.Likes, userID)
			transitioned = false
		}
		comment.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		ps.notifications.NotifyCommentLike(ctx, commentID, userID, commentOwnerID)
	}
	return post, nil
}

// mutatePost runs a read-modify-write with a bounded retry on version
// conflicts. The mutation closure sees a fresh read on every attempt.
func (ps *postService) mutatePost(ctx context.Context, postID uuid.UUID, mutate func(post *types.Post) error) (*types.Post, error) {
	for attempt := 0; attempt < casRetries; attempt++ {
		post, err := ps.postRepo.GetByID(ctx, nil, postID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, apierr.NotFound("post %s not found", postID)
		}
		if err := mutate(post); err != nil {
			return nil, err
		}
		post.UpdatedAt = time.Now().UTC()
		err = ps.postRepo.Save(ctx, nil, post)
		if errors.Is(err, repos.ErrVersionConflict) {
			ps.log.Debug("post save lost version race, retrying", "post_id", postID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return post, nil
	}
	return nil, apierr.Conflict("post %s was modified concurrently", postID)
}
