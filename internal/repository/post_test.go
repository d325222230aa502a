package repository

import (
	"context"
	"testing"

	"postsio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	_, posts, _ := setupRepos(t)
	ctx := context.Background()

	post := &models.Post{Title: "hello", Content: "world", UserID: "u1"}
	require.NoError(t, posts.Create(ctx, post))
	require.NotEmpty(t, post.ID)
	assert.NotNil(t, post.Comments, "comments initialize to an empty sequence")

	loaded, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", loaded.Title)
	assert.Empty(t, loaded.Comments)
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	_, posts, _ := setupRepos(t)

	_, err := posts.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, models.IsNotFoundError(err))
}

func TestPostRepository_AddComment(t *testing.T) {
	_, posts, _ := setupRepos(t)
	ctx := context.Background()

	post := &models.Post{Title: "thread", UserID: "u1"}
	require.NoError(t, posts.Create(ctx, post))

	first := &models.Comment{Content: "first", UserID: "u2"}
	second := &models.Comment{Content: "second", UserID: "u3"}
	require.NoError(t, posts.AddComment(ctx, post.ID, first))
	require.NoError(t, posts.AddComment(ctx, post.ID, second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())

	loaded, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Comments, 2)
	assert.Equal(t, "first", loaded.Comments[0].Content, "insertion order preserved")
	assert.Equal(t, "second", loaded.Comments[1].Content)
}

func TestPostRepository_AddComment_MissingPost(t *testing.T) {
	_, posts, _ := setupRepos(t)

	err := posts.AddComment(context.Background(), "missing", &models.Comment{Content: "x", UserID: "u1"})
	require.Error(t, err)
	assert.True(t, models.IsNotFoundError(err))
}

func TestPostRepository_DeleteByUser(t *testing.T) {
	_, posts, _ := setupRepos(t)
	ctx := context.Background()

	require.NoError(t, posts.Create(ctx, &models.Post{Title: "a1", UserID: "alice"}))
	require.NoError(t, posts.Create(ctx, &models.Post{Title: "a2", UserID: "alice"}))
	require.NoError(t, posts.Create(ctx, &models.Post{Title: "b1", UserID: "bob"}))

	require.NoError(t, posts.DeleteByUser(ctx, "alice"))

	all, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b1", all[0].Title)

	// Deleting again is a no-op.
	require.NoError(t, posts.DeleteByUser(ctx, "alice"))
}

func TestPostRepository_RemoveCommentsByUser(t *testing.T) {
	_, posts, _ := setupRepos(t)
	ctx := context.Background()

	p1 := &models.Post{Title: "p1", UserID: "bob"}
	p2 := &models.Post{Title: "p2", UserID: "carol"}
	require.NoError(t, posts.Create(ctx, p1))
	require.NoError(t, posts.Create(ctx, p2))

	require.NoError(t, posts.AddComment(ctx, p1.ID, &models.Comment{Content: "alice on p1", UserID: "alice"}))
	require.NoError(t, posts.AddComment(ctx, p1.ID, &models.Comment{Content: "bob on p1", UserID: "bob"}))
	require.NoError(t, posts.AddComment(ctx, p2.ID, &models.Comment{Content: "alice on p2", UserID: "alice"}))

	require.NoError(t, posts.RemoveCommentsByUser(ctx, "alice"))

	loaded1, err := posts.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, loaded1.Comments, 1)
	assert.Equal(t, "bob", loaded1.Comments[0].UserID)

	loaded2, err := posts.GetByID(ctx, p2.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded2.Comments, "post survives with its comments pulled")
}
