package cms_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skateshop/storefront/configs"
	"github.com/skateshop/storefront/internal/core/domain/content"
	"github.com/skateshop/storefront/internal/infrastructure/cms"
)

func newClient(t *testing.T, h http.HandlerFunc) *cms.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return cms.NewClient(&configs.CMSConfig{GraphQLURL: srv.URL, APIKey: "key", Timeout: time.Second}, srv.Client(), nil)
}

func TestListPosts(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Query, "Posts(")
		require.Equal(t, float64(3), req.Variables["limit"])
		_, _ = w.Write([]byte(`{"data":{"Posts":{"docs":[
			{"id":7,"slug":"kickflip","title":"Kickflip basics","publishedAt":"2024-04-01T00:00:00Z","coverImage":{"url":"/media/kf.jpg"}},
			{"id":"abc","slug":"bearings","title":"Bearing care","publishedAt":"2024-03-01T00:00:00Z"}
		]}}}`))
	})

	posts, err := c.ListPosts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "7", posts[0].ID)
	require.Equal(t, "/media/kf.jpg", posts[0].CoverImage)
	require.Equal(t, "abc", posts[1].ID)
	require.Empty(t, posts[1].CoverImage)
}

func TestGetPostBySlug_NotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"Posts":{"docs":[]}}}`))
	})
	_, err := c.GetPostBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, content.ErrPostNotFound)
}

func TestQueryErrors(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Cannot query field"}]}`))
	})
	_, err := c.ListPosts(context.Background(), 1)
	var qe *cms.QueryError
	require.True(t, errors.As(err, &qe))
	require.Contains(t, err.Error(), "Cannot query field")
}

func TestUnexpectedStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := c.ListPosts(context.Background(), 1)
	require.Error(t, err)
}
