package ingest

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestHandlerUpload_Success(t *testing.T) {
	repo := new(MockRepository)
	embedder := new(MockEmbedder)
	store := new(MockVectorStore)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	store.On("Upsert", mock.Anything, mock.Anything, "default").Return(1, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	handler := NewHandler(newTestService(repo, embedder, store, nil), 50)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "Photosynthesis converts light into chemical energy."})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var result Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.VectorsStored)
}

func TestHandlerUpload_NoFiles(t *testing.T) {
	handler := NewHandler(newTestService(new(MockRepository), new(MockEmbedder), new(MockVectorStore), nil), 50)

	body, contentType := multipartBody(t, map[string]string{})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	errObj := resp["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
}

func TestHandlerUpload_UnsupportedExtension(t *testing.T) {
	handler := NewHandler(newTestService(new(MockRepository), new(MockEmbedder), new(MockVectorStore), nil), 50)

	body, contentType := multipartBody(t, map[string]string{"image.png": "not text"})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpload_PipelineFailureReturns422(t *testing.T) {
	repo := new(MockRepository)
	embedder := new(MockEmbedder)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	handler := NewHandler(newTestService(repo, embedder, new(MockVectorStore), nil), 50)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "Content to embed."})
	req := httptest.NewRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var result Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, "Failed to create embeddings from chunks", result.Message)
}
