package server

import (
	"context"
	"net/http"
	"testing"

	"postsio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	app, _, _ := setupTestServer(t)

	status, body := doJSON(t, app, http.MethodPost, "/posts", map[string]any{
		"title":   "hello",
		"content": "world",
		"user":    "u1",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["result"])

	post, ok := body["post"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", post["title"])
	assert.Equal(t, "u1", post["user"])
	assert.NotEmpty(t, post["id"])
}

func TestAddComment(t *testing.T) {
	app, s, _ := setupTestServer(t)
	ctx := context.Background()

	post := &models.Post{Title: "thread", UserID: "u1"}
	require.NoError(t, s.postRepo.Create(ctx, post))

	status, body := doJSON(t, app, http.MethodPost, "/posts/"+post.ID+"/comments", map[string]any{
		"content": "nice post",
		"user":    "u2",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["result"])

	comment, ok := body["comment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "nice post", comment["content"])
	assert.NotEmpty(t, comment["id"])

	t.Run("missing post", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodPost, "/posts/missing/comments", map[string]any{
			"content": "lost",
			"user":    "u2",
		})
		assert.Equal(t, false, body["result"])
		assert.NotEmpty(t, body["error"])
	})
}

func TestListPosts(t *testing.T) {
	app, s, _ := setupTestServer(t)
	ctx := context.Background()

	p1 := &models.Post{Title: "first", UserID: "u1"}
	p2 := &models.Post{Title: "second", UserID: "u2"}
	require.NoError(t, s.postRepo.Create(ctx, p1))
	require.NoError(t, s.postRepo.Create(ctx, p2))
	require.NoError(t, s.postRepo.AddComment(ctx, p1.ID, &models.Comment{Content: "hi", UserID: "u2"}))

	status, body := doJSON(t, app, http.MethodGet, "/posts", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["result"])
	assert.EqualValues(t, 2, body["nbPosts"])

	posts, ok := body["posts"].([]any)
	require.True(t, ok)
	require.Len(t, posts, 2)
}
