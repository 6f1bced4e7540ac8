package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TixyFR/alymjr-portfolio-98/internal/application"
	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
	"github.com/TixyFR/alymjr-portfolio-98/internal/infrastructure/store"
)

func newTestApp(t *testing.T) (*fiber.App, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	repo := application.NewContentRepository(mem)
	t.Cleanup(func() { repo.Close() })
	handler := NewContentHandler(repo, application.NewReorderCoordinator(repo))

	app := fiber.New()
	content := app.Group("/api/content")
	content.Get("/", handler.GetContent)
	content.Post("/", handler.AddContent)
	content.Post("/reorder", handler.ReorderContent)
	content.Put("/:id", handler.UpdateContent)
	content.Delete("/:id", handler.DeleteContent)
	return app, mem
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeItems(t *testing.T, resp *http.Response) []domain.GalleryItem {
	t.Helper()
	defer resp.Body.Close()
	var items []domain.GalleryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func TestContentEndpointsRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/content/", map[string]string{
		"category":  "miniatures",
		"image_url": "https://cdn.example.com/fig.png",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created domain.GalleryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.DisplayOrder)

	resp = doJSON(t, app, fiber.MethodGet, "/api/content/?category=miniatures", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/content/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/api/content/?category=miniatures", nil)
	assert.Empty(t, decodeItems(t, resp))
}

func TestAddContentRejectsMissingImage(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/content/", map[string]string{
		"category":  "miniatures",
		"image_url": "",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/api/content/?category=miniatures", nil)
	assert.Empty(t, decodeItems(t, resp), "rejected add must not create anything")
}

func TestGetContentRejectsUnknownCategory(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/content/?category=sculptures", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReorderEndpoint(t *testing.T) {
	app, mem := newTestApp(t)
	ctx := context.Background()

	var ids []string
	for i, url := range []string{"a.png", "b.png", "c.png"} {
		item, err := mem.Insert(ctx, domain.ItemDraft{
			Category:     domain.CategoryAffiches,
			Title:        url,
			ImageURL:     url,
			DisplayOrder: i + 1,
		})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	resp := doJSON(t, app, fiber.MethodPost, "/api/content/reorder", map[string]any{
		"category": "affiches",
		"from":     0,
		"to":       2,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, fiber.MethodGet, "/api/content/?category=affiches", nil)
	items := decodeItems(t, resp)
	require.Len(t, items, 3)
	assert.Equal(t, []string{ids[1], ids[2], ids[0]}, []string{items[0].ID, items[1].ID, items[2].ID})
	for i, item := range items {
		assert.Equal(t, i+1, item.DisplayOrder)
	}
}

func TestUpdateContentEndpoint(t *testing.T) {
	app, mem := newTestApp(t)

	item, err := mem.Insert(context.Background(), domain.ItemDraft{
		Category: domain.CategoryAutres,
		Title:    "old title",
		ImageURL: "x.png",
	})
	require.NoError(t, err)

	resp := doJSON(t, app, fiber.MethodPut, "/api/content/"+item.ID, map[string]string{
		"title": "new title",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated domain.GalleryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, "new title", updated.Title)

	resp = doJSON(t, app, fiber.MethodPut, "/api/content/"+item.ID, map[string]string{
		"category": "plakate",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
