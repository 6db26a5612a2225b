package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		expectedLimit  int
		expectedOffset int
	}{
		{
			name:           "default values",
			queryParams:    map[string]string{},
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "custom valid values",
			queryParams:    map[string]string{"limit": "50", "offset": "10"},
			expectedLimit:  50,
			expectedOffset: 10,
		},
		{
			name:           "limit exceeds max",
			queryParams:    map[string]string{"limit": "200"},
			expectedLimit:  MaxLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative limit uses default",
			queryParams:    map[string]string{"limit": "-5"},
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative offset uses default",
			queryParams:    map[string]string{"offset": "-5"},
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "invalid limit uses default",
			queryParams:    map[string]string{"limit": "invalid"},
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "invalid offset uses default",
			queryParams:    map[string]string{"offset": "invalid"},
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "zero limit uses default",
			queryParams:    map[string]string{"limit": "0"},
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			q := req.URL.Query()
			for k, v := range tt.queryParams {
				q.Add(k, v)
			}
			req.URL.RawQuery = q.Encode()
			c.Request = req

			pagination := ParsePagination(c)

			assert.Equal(t, tt.expectedLimit, pagination.Limit)
			assert.Equal(t, tt.expectedOffset, pagination.Offset)
		})
	}
}

func TestExtractUUIDParam(t *testing.T) {
	tests := []struct {
		name       string
		paramValue string
		expectErr  bool
	}{
		{
			name:       "valid UUID",
			paramValue: "550e8400-e29b-41d4-a716-446655440000",
			expectErr:  false,
		},
		{
			name:       "invalid UUID",
			paramValue: "invalid-uuid",
			expectErr:  true,
		},
		{
			name:       "empty string",
			paramValue: "",
			expectErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.paramValue}}

			id, err := ExtractUUIDParam(c, "id")

			if tt.expectErr {
				assert.Error(t, err)
				assert.Equal(t, uuid.Nil, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.paramValue, id.String())
			}
		})
	}
}

func multipartRequest(t *testing.T, field, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(body)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReadUpload(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		body      []byte
		maxBytes  int64
		expectErr error
	}{
		{name: "image field", field: "image", body: []byte("jpegdata"), maxBytes: 1024},
		{name: "file field", field: "file", body: []byte("pngdata"), maxBytes: 1024},
		{name: "no limit", field: "image", body: []byte("x"), maxBytes: 0},
		{name: "missing file", field: "", maxBytes: 1024, expectErr: ErrMissingUpload},
		{name: "too large", field: "image", body: bytes.Repeat([]byte("a"), 64), maxBytes: 16, expectErr: ErrUploadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = multipartRequest(t, tt.field, "leaf.jpg", tt.body)

			upload, closer, err := ReadUpload(c, tt.maxBytes)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, upload)
				return
			}
			require.NoError(t, err)
			defer closer.Close()
			assert.Equal(t, "leaf.jpg", upload.Filename)
			assert.Equal(t, int64(len(tt.body)), upload.Size)
			data, err := io.ReadAll(upload.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, data)
		})
	}
}
