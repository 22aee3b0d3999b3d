package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/config"
	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/generate"
	"github.com/edustack/edustack/internal/inference"
)

func TestGenerateHandlerInvalidBody(t *testing.T) {
	d := generate.NewDispatcher(&stubGateway{}, nil, nil, config.InferenceConfig{})
	h := NewGenerateHandler(d)

	req := httptest.NewRequest("POST", "/api/v1/generate", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateHandlerValidationFailureIsHTTP200(t *testing.T) {
	d := generate.NewDispatcher(&stubGateway{}, nil, nil, config.InferenceConfig{})
	h := NewGenerateHandler(d)

	req := httptest.NewRequest("POST", "/api/v1/generate",
		strings.NewReader(`{"generationType":"courseware","prompt":""}`))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res generate.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "prompt is required", res.Error)
	assert.Equal(t, "courseware", res.GenerationType)
}

func TestGenerateHandlerSuccess(t *testing.T) {
	gw := &stubGateway{content: "lesson plan"}
	d := generate.NewDispatcher(gw, inference.NewClient(config.InferenceConfig{}), fetch.NewHTTPFetcher(), config.InferenceConfig{})
	h := NewGenerateHandler(d)

	req := httptest.NewRequest("POST", "/api/v1/generate",
		strings.NewReader(`{"generationType":"courseware","prompt":"teach fractions"}`))
	rec := httptest.NewRecorder()
	h.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res generate.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "lesson plan", res.Content)
}
