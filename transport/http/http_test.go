package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/autom8ter/tabkit"
	"github.com/autom8ter/tabkit/testutil"
	transport "github.com/autom8ter/tabkit/transport/http"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

type page struct {
	Items       []map[string]any `json:"items"`
	TotalItems  int              `json:"total_items"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	PageSize    int              `json:"page_size"`
}

type apiError struct {
	Code     int      `json:"code"`
	Messages []string `json:"messages"`
}

func newServer(t *testing.T) *httptest.Server {
	ds := tabkit.NewDataset()
	ds.Set("products", testutil.Sneakers())
	logger, err := tabkit.NewLogger("debug", map[string]any{})
	assert.Nil(t, err)
	srv := httptest.NewServer(transport.Handler(ds, transport.Config{
		Processor:    tabkit.NewProcessor(tabkit.WithLogger(logger)),
		Logger:       logger,
		LiveDebounce: 50 * time.Millisecond,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler(t *testing.T) {
	srv := newServer(t)
	t.Run("list collections", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/collections")
		assert.Nil(t, err)
		defer resp.Body.Close()
		var names []string
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&names))
		assert.Equal(t, []string{"products"}, names)
	})
	t.Run("records", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/collections/products/records?filter.status=Available&page_size=5&sort=price&direction=desc")
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var p page
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, 8, p.TotalItems)
		assert.Equal(t, 2, p.TotalPages)
		assert.Len(t, p.Items, 5)
		assert.Equal(t, 230.0, p.Items[0]["price"])
	})
	t.Run("records with sentinel", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/collections/products/records?filter.status=all")
		assert.Nil(t, err)
		defer resp.Body.Close()
		var p page
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, 12, p.TotalItems)
		assert.Equal(t, 10, p.PageSize)
	})
	t.Run("invalid page", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/collections/products/records?page=0")
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var e apiError
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Equal(t, http.StatusBadRequest, e.Code)
		assert.Equal(t, []string{"invalid query: Page: failed 'gte' constraint"}, e.Messages)
	})
	t.Run("huge page size", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/collections/products/records?page_size=9223372036854775807")
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var p page
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, 12, p.TotalItems)
		assert.Equal(t, 1, p.TotalPages)
		assert.Len(t, p.Items, 12)
	})
	t.Run("unknown collection", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/collections/orders/records")
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
	t.Run("query", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/collections/products/query", "application/json", strings.NewReader(`{"search_term":"beigi","page":1,"page_size":10}`))
		assert.Nil(t, err)
		defer resp.Body.Close()
		var p page
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, 2, p.TotalItems)
	})
	t.Run("yaml query", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/collections/products/query", "application/yaml", strings.NewReader("page: 5\npage_size: 10\n"))
		assert.Nil(t, err)
		defer resp.Body.Close()
		var p page
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&p))
		assert.Equal(t, 2, p.CurrentPage)
		assert.Len(t, p.Items, 2)
	})
	t.Run("invalid query", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/collections/products/query", "application/json", strings.NewReader(`{"page":1}`))
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var e apiError
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Equal(t, []string{"invalid query: PageSize: failed 'gte' constraint"}, e.Messages)
	})
	t.Run("schema violation", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/collections/products/query", "application/json", strings.NewReader(`{"page":1,"page_size":10,"limit":5}`))
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var e apiError
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&e))
		if assert.Len(t, e.Messages, 1) {
			assert.Contains(t, e.Messages[0], "limit")
		}
	})
	t.Run("export", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/collections/products/export", "application/json", strings.NewReader(`{"filters":{"status":"Out of Stock"},"sort_field":"price"}`))
		assert.Nil(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var items []map[string]any
		assert.Nil(t, json.NewDecoder(resp.Body).Decode(&items))
		var ids []any
		for _, item := range items {
			ids = append(ids, item["id"])
		}
		assert.Equal(t, []any{12.0, 9.0, 6.0, 3.0}, ids)
	})
}

func TestLive(t *testing.T) {
	srv := newServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/collections/products/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	t.Run("latest query wins", func(t *testing.T) {
		for _, term := range []string{"n", "ni", "nit", "nite"} {
			assert.Nil(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"search_term":"`+term+`","page":1,"page_size":10}`)))
		}
		assert.Nil(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var p page
		assert.Nil(t, conn.ReadJSON(&p))
		assert.Equal(t, 2, p.TotalItems)
	})
	t.Run("invalid query", func(t *testing.T) {
		assert.Nil(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"page":0,"page_size":10}`)))
		assert.Nil(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var e apiError
		assert.Nil(t, conn.ReadJSON(&e))
		assert.Equal(t, http.StatusBadRequest, e.Code)
		if assert.Len(t, e.Messages, 1) {
			assert.Contains(t, e.Messages[0], "page")
			assert.Contains(t, e.Messages[0], "greater than or equal to")
		}
	})
}
