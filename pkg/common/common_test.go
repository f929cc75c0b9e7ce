package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPageParams(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantPage   *int
		wantSearch *string
		wantErr    bool
	}{
		{name: "absent", target: "/characters"},
		{name: "both", target: "/characters?page=2&search=Luke", wantPage: intPtr(2), wantSearch: strPtr("Luke")},
		{name: "empty search kept", target: "/characters?search=", wantSearch: strPtr("")},
		{name: "zero page", target: "/characters?page=0", wantErr: true},
		{name: "non-numeric page", target: "/characters?page=abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ExtractPageParams(httptest.NewRequest(http.MethodGet, tt.target, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantSearch, params.Search)
		})
	}
}

func TestBuildPaginationMeta(t *testing.T) {
	meta := BuildPaginationMeta(2, CatalogPageSize, 82, true)

	assert.Equal(t, 9, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
}

func TestRespondWithMeta(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()

	RespondWithMeta(rec, req, http.StatusOK, map[string]string{"hello": "world"}, nil)

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, "req-1", body.Meta.RequestID)
	assert.Equal(t, APIVersion, body.Meta.Version)
	assert.NotEmpty(t, body.Meta.Timestamp)
}

func TestParseJSONBody(t *testing.T) {
	var v struct {
		Query string `json:"query"`
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"query":"Luke"}`))
	require.NoError(t, ParseJSONBody(rec, req, &v, 1024))
	assert.Equal(t, "Luke", v.Query)

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"unknown":1}`))
	assert.Error(t, ParseJSONBody(rec, req, &v, 1024))

	req = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"query":"`+strings.Repeat("x", 100)+`"}`))
	assert.Error(t, ParseJSONBody(rec, req, &v, 16))
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
