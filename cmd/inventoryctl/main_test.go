package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves a fixed product list and records mutation requests.
type fakeAPI struct {
	mu          sync.Mutex
	statsDown   bool
	lastMethod  string
	lastPath    string
	lastPayload map[string]any
}

const productsJSON = `[
{"id":1,"name":"Steel Bolt","category":"Hardware","quantity":10,"price":0.25,"description":null,"created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"},
{"id":2,"name":"Hammer","category":"Tools","quantity":2,"price":15.00,"description":"Claw hammer","created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}
]`

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, productsJSON)
	})
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		down := f.statsDown
		f.mu.Unlock()
		if down {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":"store unavailable"}`)
			return
		}
		_, _ = io.WriteString(w, `{"total_products":2,"total_items":12,"total_categories":2,"total_value":999.00}`)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"ok":true,"db":true}`)
	})
	mutation := func(status int, body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.lastMethod, f.lastPath, f.lastPayload = r.Method, r.URL.Path, nil
			if r.Body != nil && r.ContentLength != 0 {
				var payload map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				f.lastPayload = payload
			}
			f.mu.Unlock()
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		}
	}
	product := `{"id":2,"name":"Hammer","quantity":2,"price":15,"created_at":"2025-01-01T00:00:00Z","updated_at":"2025-01-01T00:00:00Z"}`
	mux.HandleFunc("POST /products", mutation(http.StatusCreated, product))
	mux.HandleFunc("PUT /products/{id}", mutation(http.StatusOK, product))
	mux.HandleFunc("DELETE /products/{id}", mutation(http.StatusOK, `{"deleted":2}`))
	return mux
}

func run(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(api.handler(t))
	t.Cleanup(server.Close)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--api-url", server.URL}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, &fakeAPI{}, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Steel Bolt")
	assert.Contains(t, out, "Hammer")
	assert.Contains(t, out, "value: 999.00")
}

func TestList_Filtered(t *testing.T) {
	out, err := run(t, &fakeAPI{}, "list", "--search", "CLAW")

	require.NoError(t, err)
	assert.NotContains(t, out, "Steel Bolt")
	assert.Contains(t, out, "Hammer")
	assert.Contains(t, out, "showing 1 of 2 products")
}

func TestList_FoldsStatsWhenServerFails(t *testing.T) {
	out, err := run(t, &fakeAPI{statsDown: true}, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "products: 2  items: 12  categories: 2  value: 32.50")
}

func TestAdd(t *testing.T) {
	api := &fakeAPI{}

	out, err := run(t, api, "add", "--name", "Hammer", "--quantity", "2", "--price", "15")

	require.NoError(t, err)
	assert.Contains(t, out, "Created product 2")
	assert.Equal(t, http.MethodPost, api.lastMethod)
	assert.Equal(t, "Hammer", api.lastPayload["name"])
	assert.Equal(t, float64(2), api.lastPayload["quantity"])
	assert.Equal(t, float64(15), api.lastPayload["price"])
	assert.NotContains(t, api.lastPayload, "category")
}

func TestAdd_InvalidQuantity(t *testing.T) {
	api := &fakeAPI{}

	_, err := run(t, api, "add", "--name", "Hammer", "--quantity", "many")

	require.ErrorContains(t, err, "invalid --quantity")
	assert.Empty(t, api.lastMethod)
}

func TestUpdate(t *testing.T) {
	api := &fakeAPI{}

	out, err := run(t, api, "update", "2", "--quantity", "7", "--category", "")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated product 2")
	assert.Equal(t, http.MethodPut, api.lastMethod)
	assert.Equal(t, "/products/2", api.lastPath)
	assert.Equal(t, map[string]any{"quantity": float64(7), "category": ""}, api.lastPayload)
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	api := &fakeAPI{}

	_, err := run(t, api, "update", "2")

	require.ErrorContains(t, err, "nothing to update")
	assert.Empty(t, api.lastMethod)
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}

	out, err := run(t, api, "delete", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted product 2")
	assert.Equal(t, http.MethodDelete, api.lastMethod)
}

func TestDelete_InvalidID(t *testing.T) {
	_, err := run(t, &fakeAPI{}, "delete", "0")

	require.ErrorContains(t, err, `invalid id "0"`)
}

func TestStatsAndHealth(t *testing.T) {
	out, err := run(t, &fakeAPI{}, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Items:      12")

	out, err = run(t, &fakeAPI{}, "health")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestAPIURLFromEnv(t *testing.T) {
	server := httptest.NewServer((&fakeAPI{}).handler(t))
	defer server.Close()
	t.Setenv("INVENTORY_API_URL", server.URL)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"health"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ok\n", out.String())
}
