package contentstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/media-library-service/internal/config"
	"github.com/spec-kit/media-library-service/internal/contentstore"
)

func testContentConfig(endpoint string) config.ContentConfig {
	return config.ContentConfig{
		ProjectID:      "test-project",
		Dataset:        "production",
		APIVersion:     "2024-01-01",
		Endpoint:       endpoint,
		TimeoutSeconds: 2,
	}
}

func TestFetchDecodesResultEnvelope(t *testing.T) {
	var gotQuery, gotParam, gotPerspective, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-01-01/data/query/production", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotParam = r.URL.Query().Get("$email")
		gotPerspective = r.URL.Query().Get("perspective")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"_id": "user-1", "email": "a@x.com"},
		})
	}))
	defer server.Close()

	client := contentstore.NewClient(testContentConfig(server.URL), "read-token", contentstore.PerspectivePublished, zap.NewNop())

	var out struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
	}
	err := client.Fetch(context.Background(), `*[_type == "user" && email == $email][0]`, map[string]any{"email": "a@x.com"}, &out)
	require.NoError(t, err)

	assert.Equal(t, `*[_type == "user" && email == $email][0]`, gotQuery)
	assert.Equal(t, `"a@x.com"`, gotParam)
	assert.Equal(t, "published", gotPerspective)
	assert.Equal(t, "Bearer read-token", gotAuth)
	assert.Equal(t, "user-1", out.ID)
	assert.Equal(t, "a@x.com", out.Email)
}

func TestFetchNullResultLeavesOutUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": null}`))
	}))
	defer server.Close()

	client := contentstore.NewClient(testContentConfig(server.URL), "", contentstore.PerspectivePublished, zap.NewNop())

	var out *struct {
		ID string `json:"_id"`
	}
	err := client.Fetch(context.Background(), `*[_id == "missing"][0]`, nil, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": 2}`))
	}))
	defer server.Close()

	client := contentstore.NewClient(testContentConfig(server.URL), "", contentstore.PerspectivePublished, zap.NewNop())

	count, err := client.Count(context.Background(), `count(*[_type == "user"])`, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCreateSendsMutationAndReturnsDocument(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnDocuments"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"results":[{"id":"user-1","document":{"_id":"user-1","email":"a@x.com"}}]}`))
	}))
	defer server.Close()

	client := contentstore.NewClient(testContentConfig(server.URL), "write-token", contentstore.PerspectivePublished, zap.NewNop())

	doc, err := client.Create(context.Background(), map[string]any{"_type": "user", "email": "a@x.com"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"user-1","email":"a@x.com"}`, string(doc))

	mutations, ok := gotBody["mutations"].([]any)
	require.True(t, ok)
	require.Len(t, mutations, 1)
	assert.NotEmpty(t, gotBody["transactionId"])
}

func TestErrorStatusSurfacesDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"no such dataset"}}`))
	}))
	defer server.Close()

	client := contentstore.NewClient(testContentConfig(server.URL), "", contentstore.PerspectivePublished, zap.NewNop())

	err := client.Fetch(context.Background(), "1", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "no such dataset")
}

func TestRequestsAreBoundedByTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"result": 1}`))
	}))
	defer server.Close()

	cfg := testContentConfig(server.URL)
	client := contentstore.NewClient(cfg, "", contentstore.PerspectivePublished, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.Fetch(ctx, "1", nil, nil)
	assert.Error(t, err)
}
