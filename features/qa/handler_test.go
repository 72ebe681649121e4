package qa

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandlerAsk_Success(t *testing.T) {
	retriever := new(MockRetriever)
	gen := new(MockGenerator)
	retriever.On("Retrieve", mock.Anything, "What is the capital of France?", 5).Return(segments(), nil)
	gen.On("Generate", mock.Anything, mock.Anything).Return("Paris. This is supported by paragraph 1.", nil)

	handler := NewHandler(NewService(retriever, gen, 5))

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query":"What is the capital of France?"}`))
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var answer Answer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&answer))
	assert.Contains(t, answer.Answer, "Paris")
	assert.NotEmpty(t, answer.Sources)
}

func TestHandlerAsk_MissingQuery(t *testing.T) {
	handler := NewHandler(NewService(new(MockRetriever), new(MockGenerator), 5))

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestHandlerAsk_InvalidJSON(t *testing.T) {
	handler := NewHandler(NewService(new(MockRetriever), new(MockGenerator), 5))

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
