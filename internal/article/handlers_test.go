package article_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/priceworks/article-service/internal/article"
	"github.com/priceworks/article-service/internal/store"
)

type articleResponse struct {
	Data article.Article `json:"data"`
}

type articlesResponse struct {
	Data []article.Article `json:"data"`
}

type pricedResponse struct {
	Data []article.PricedArticle `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	svc, err := article.NewService(article.ServiceConfig{Store: store.NewMemory()})
	require.NoError(t, err)
	handler := article.NewHandler(article.HandlerConfig{Service: svc})

	r := chi.NewRouter()
	r.Route("/api/v1/articles", func(a chi.Router) {
		a.Post("/", handler.Create)
		a.Get("/", handler.List)
		a.Get("/{id}", handler.Get)
		a.Put("/{id}", handler.Update)
		a.Delete("/{id}", handler.Delete)
		a.Head("/{id}", handler.Exists)
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateArticle(t *testing.T) {
	r := newRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{
		"name": "Hiking Backpack",
		"slogan": "Carries everything",
		"netPrice": 65.00,
		"salesPrice": 99.95,
		"vatRatio": 0.21,
		"discounts": [
			{"description": "Season opener", "discountPercentage": 15, "startDate": "2026-06-01", "endDate": "2026-06-30"}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp articleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	require.Equal(t, "Hiking Backpack", resp.Data.Name)
	require.Len(t, resp.Data.Discounts, 1)
	require.Equal(t, "2026-06-01", resp.Data.Discounts[0].StartDate.String())
}

func TestCreateArticleBadRequests(t *testing.T) {
	r := newRouter(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{`, "invalid JSON body"},
		{"missing name", `{"slogan": "no name"}`, "name is required"},
		{"negative percentage", `{"name": "A", "discounts": [{"discountPercentage": -5}]}`, "between 0 and 100"},
		{"percentage above hundred", `{"name": "A", "discounts": [{"discountPercentage": 101}]}`, "between 0 and 100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/v1/articles", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, "BAD_REQUEST", resp.Error.Code)
			require.Contains(t, resp.Error.Message, tc.want)
		})
	}
}

func TestCreateArticleGateFailure(t *testing.T) {
	r := newRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{
		"name": "Backpack",
		"discounts": [
			{"discountPercentage": 10, "startDate": "2026-01-01", "endDate": "2026-01-10"},
			{"discountPercentage": 20, "startDate": "2026-01-10", "endDate": "2026-01-20"}
		]
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "VALIDATION", resp.Error.Code)
	require.Contains(t, resp.Error.Message, "overlapping date ranges")
}

func TestGetArticle(t *testing.T) {
	r := newRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{"name": "Backpack"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var resp articleResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := doJSON(t, r, http.MethodGet, "/api/v1/articles/"+resp.Data.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	missing := doJSON(t, r, http.MethodGet, "/api/v1/articles/unknown-id", "")
	require.Equal(t, http.StatusNotFound, missing.Code)
	var errResp errorResponse
	require.NoError(t, json.Unmarshal(missing.Body.Bytes(), &errResp))
	require.Equal(t, "NOT_FOUND", errResp.Error.Code)
}

func TestListArticlesWithFilters(t *testing.T) {
	r := newRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{
		"name": "Discounted",
		"netPrice": 50.00,
		"salesPrice": 100.00,
		"discounts": [{"discountPercentage": 20, "startDate": "2026-06-01", "endDate": "2026-06-30"}]
	}`)
	require.Equal(t, http.StatusCreated, created.Code)
	plain := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{"name": "Plain", "salesPrice": 40.00}`)
	require.Equal(t, http.StatusCreated, plain.Code)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/articles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all articlesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all.Data, 2)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/articles?date=2026-06-15&withPrices=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var priced pricedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &priced))
	require.Len(t, priced.Data, 2)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/articles?date=2026-06-15&discountOnly=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var discounted articlesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &discounted))
	require.Len(t, discounted.Data, 1)
	require.Equal(t, "Discounted", discounted.Data[0].Name)
}

func TestListArticlesDateValidation(t *testing.T) {
	r := newRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/articles?date=15-06-2026", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error.Message, "ISO calendar date")

	rec = doJSON(t, r, http.MethodGet, "/api/v1/articles?withPrices=true", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "VALIDATION", resp.Error.Code)
	require.Contains(t, resp.Error.Message, "date parameter is required")
}

func TestUpdateArticleEndpoint(t *testing.T) {
	r := newRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{"name": "Backpack", "slogan": "Old"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var resp articleResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := doJSON(t, r, http.MethodPut, "/api/v1/articles/"+resp.Data.ID, `{"name": "Backpack XL"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated articleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Backpack XL", updated.Data.Name)
	require.Empty(t, updated.Data.Slogan)

	missing := doJSON(t, r, http.MethodPut, "/api/v1/articles/unknown-id", `{"name": "Backpack"}`)
	require.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDeleteArticleEndpoint(t *testing.T) {
	r := newRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{"name": "Backpack"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var resp articleResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := doJSON(t, r, http.MethodDelete, "/api/v1/articles/"+resp.Data.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/api/v1/articles/"+resp.Data.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExistsEndpoint(t *testing.T) {
	r := newRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/v1/articles", `{"name": "Backpack"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var resp articleResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	rec := doJSON(t, r, http.MethodHead, "/api/v1/articles/"+resp.Data.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())

	rec = doJSON(t, r, http.MethodHead, "/api/v1/articles/unknown-id", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
