package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
	"github.com/nwakalordivine/AgriEase-AI/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveOnce(t *testing.T, method string, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	router := gin.New()
	router.Handle(method, "/test", h)

	req, _ := http.NewRequest(method, "/test", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestRespondSuccess(t *testing.T) {
	t.Run("wraps a detection in the envelope", func(t *testing.T) {
		detection := &usecase.DetectionOutput{
			ID:         uuid.New(),
			EntryID:    uuid.New(),
			Kind:       "pest",
			Name:       "Aphid",
			Confidence: 0.91,
			ImageURL:   "http://localhost:8000/uploads/a.jpg",
			Strategy:   "local_detector",
			RawResult:  []service.Label{{Label: "aphid", Score: 0.91}, {Label: "mite", Score: 0.05}},
		}

		w, response := serveOnce(t, http.MethodPost, func(c *gin.Context) {
			c.Set("request_id", "test-request-id")
			respondSuccess(c, http.StatusCreated, detection)
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, response.Success)
		assert.Nil(t, response.Error)
		require.NotNil(t, response.Meta)
		assert.Equal(t, "test-request-id", response.Meta.RequestID)

		data, ok := response.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, detection.EntryID.String(), data["entry_id"])
		assert.Equal(t, "Aphid", data["name"])
		assert.Equal(t, "local_detector", data["strategy"])
		assert.Len(t, data["raw_result"], 2)
		assert.Equal(t, false, data["entry_created"])
	})

	t.Run("wraps a paginated list", func(t *testing.T) {
		list := &usecase.ListOutput[usecase.DetectionOutput]{
			Items:   []usecase.DetectionOutput{{Name: "Leaf Rust"}},
			Total:   3,
			Limit:   1,
			Offset:  0,
			HasMore: true,
		}

		w, response := serveOnce(t, http.MethodGet, func(c *gin.Context) {
			respondSuccess(c, http.StatusOK, list)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, response.Success)
		data, ok := response.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, data["has_more"])
		assert.EqualValues(t, 3, data["total"])
	})
}

func TestRespondError(t *testing.T) {
	t.Run("classification failure maps to 502", func(t *testing.T) {
		cause := fmt.Errorf("%w: all strategies failed", usecase.ErrClassification)

		w, response := serveOnce(t, http.MethodPost, func(c *gin.Context) {
			c.Set("request_id", "test-request-id")
			HandleUsecaseError(c, cause)
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.False(t, response.Success)
		assert.Nil(t, response.Data)
		require.NotNil(t, response.Error)
		assert.Equal(t, "CLASSIFICATION_FAILED", response.Error.Code)
		assert.Equal(t, "image could not be classified", response.Error.Message)
		assert.Equal(t, "test-request-id", response.Meta.RequestID)
	})

	t.Run("invalid request", func(t *testing.T) {
		w, response := serveOnce(t, http.MethodGet, func(c *gin.Context) {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "region is required")
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, response.Success)
		assert.Equal(t, "INVALID_REQUEST", response.Error.Code)
	})

	t.Run("generates request ID if not set", func(t *testing.T) {
		_, response := serveOnce(t, http.MethodGet, func(c *gin.Context) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "entry not found")
		})

		assert.NotEmpty(t, response.Meta.RequestID)
	})
}

func TestNewMeta(t *testing.T) {
	t.Run("uses existing request ID", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			c.Set("request_id", "existing-id")
			c.JSON(http.StatusOK, newMeta(c))
		})

		req, _ := http.NewRequest("GET", "/test", http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var meta MetaInfo
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
		assert.Equal(t, "existing-id", meta.RequestID)
		assert.NotEmpty(t, meta.Timestamp)
	})
}
