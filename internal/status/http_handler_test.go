package status_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reco/internal/book"
	"reco/internal/httpx"
	"reco/internal/status"
	"reco/internal/status/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID, "jti"))
}

func TestHTTPHandler_Upsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockRepository(ctrl)
	handler := status.NewHTTPHandler(status.NewService(mockRepo), zap.NewNop())

	tests := []struct {
		name           string
		userID         string
		body           map[string]string
		setupMock      func()
		expectedStatus int
	}{
		{
			name:   "success - to read",
			userID: "user-1",
			body:   map[string]string{"book_id": "/works/OL1W", "status": "toRead"},
			setupMock: func() {
				mockRepo.EXPECT().Upsert(gomock.Any(), "user-1", "/works/OL1W", book.StatusToRead).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:   "success - not interested",
			userID: "user-1",
			body:   map[string]string{"book_id": "/works/OL2W", "status": "notInterested"},
			setupMock: func() {
				mockRepo.EXPECT().Upsert(gomock.Any(), "user-1", "/works/OL2W", book.StatusNotInterested).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "bad request - unknown status",
			userID:         "user-1",
			body:           map[string]string{"book_id": "/works/OL1W", "status": "WISHLIST"},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing book",
			userID:         "user-1",
			body:           map[string]string{"status": "read"},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - blank book",
			userID:         "user-1",
			body:           map[string]string{"book_id": "   ", "status": "read"},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthorized",
			body:           map[string]string{"book_id": "/works/OL1W", "status": "read"},
			setupMock:      func() {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "store failure",
			userID: "user-1",
			body:   map[string]string{"book_id": "/works/OL1W", "status": "read"},
			setupMock: func() {
				mockRepo.EXPECT().Upsert(gomock.Any(), "user-1", "/works/OL1W", book.StatusRead).Return(errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			b, err := json.Marshal(tt.body)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPut, "/v1/statuses", bytes.NewReader(b))
			if tt.userID != "" {
				req = authed(req, tt.userID)
			}
			w := httptest.NewRecorder()

			handler.Upsert(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockRepository(ctrl)
	handler := status.NewHTTPHandler(status.NewService(mockRepo), zap.NewNop())

	t.Run("returns records", func(t *testing.T) {
		mockRepo.EXPECT().ListByUser(gomock.Any(), "user-1").Return([]status.Record{
			{BookID: "/works/OL1W", Status: book.StatusRead, UpdatedAt: time.Now()},
		}, nil)

		w := httptest.NewRecorder()
		handler.List(w, authed(httptest.NewRequest(http.MethodGet, "/v1/statuses", nil), "user-1"))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []status.Record `json:"data"`
			Meta map[string]any  `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, book.StatusRead, resp.Data[0].Status)
		assert.EqualValues(t, 1, resp.Meta["total"])
	})

	t.Run("empty list is an array", func(t *testing.T) {
		mockRepo.EXPECT().ListByUser(gomock.Any(), "user-2").Return(nil, nil)

		w := httptest.NewRecorder()
		handler.List(w, authed(httptest.NewRequest(http.MethodGet, "/v1/statuses", nil), "user-2"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}

func TestService_UpsertRejectsBlankBookID(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockRepository(ctrl)
	svc := status.NewService(mockRepo)

	err := svc.Upsert(t.Context(), "user-1", " \t", book.StatusRead)

	assert.ErrorIs(t, err, status.ErrEmptyBookID)
}
