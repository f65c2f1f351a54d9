package news

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/manukanwetan/umkm-api/models"
)

// --- Mocks ---

type MockNewsRepo struct {
	Items       []models.News
	ListErr     error
	LastLimit   int
	LastExclude string
	Created     *models.News
	CreateErr   error
	Updated     *models.News
	UpdateErr   error
	Deleted     []string
	DeleteErr   error
}

func (m *MockNewsRepo) GetAll() ([]models.News, error) {
	return m.Items, m.ListErr
}

func (m *MockNewsRepo) GetLatest(limit int) ([]models.News, error) {
	m.LastLimit = limit
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if len(m.Items) > limit {
		return m.Items[:limit], nil
	}
	return m.Items, nil
}

func (m *MockNewsRepo) GetByID(id string) (*models.News, error) {
	for i := range m.Items {
		if m.Items[i].ID == id {
			return &m.Items[i], nil
		}
	}
	return nil, models.ErrNewsNotFound
}

func (m *MockNewsRepo) GetOther(excludeID string, limit int) ([]models.News, error) {
	m.LastExclude = excludeID
	m.LastLimit = limit
	var out []models.News
	for _, n := range m.Items {
		if n.ID != excludeID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *MockNewsRepo) Create(n *models.News) error {
	m.Created = n
	return m.CreateErr
}

func (m *MockNewsRepo) Update(n *models.News) error {
	m.Updated = n
	return m.UpdateErr
}

func (m *MockNewsRepo) Delete(id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	return nil
}

type MockImageStore struct {
	Uploads   []string
	Deletes   []string
	UploadErr error
	DeleteErr error
}

func (m *MockImageStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.Uploads = append(m.Uploads, key)
	return "https://cdn.test/" + key, nil
}

func (m *MockImageStore) Delete(_ context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deletes = append(m.Deletes, key)
	return nil
}

func newHandler(repo *MockNewsRepo, images *MockImageStore) *NewsHandler {
	return NewNewsHandler(repo, images, zerolog.Nop())
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		assert.NoError(t, writer.WriteField(k, v))
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "photo.jpg")
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	msg, _ := resp["message"].(string)
	return msg
}

// --- Tests ---

func TestHandleList(t *testing.T) {
	img := "https://cdn.test/a.jpg"
	testCases := []struct {
		name           string
		repo           *MockNewsRepo
		expectedStatus int
		checkResponse  func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success",
			repo: &MockNewsRepo{Items: []models.News{
				{ID: "n1", Title: "First", Content: "Body", Image: &img},
				{ID: "n2", Title: "Second", Content: "Body"},
			}},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp struct {
					Data []NewsResponse `json:"data"`
				}
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Len(t, resp.Data, 2)
				assert.Equal(t, "First", resp.Data[0].Title)
			},
		},
		{
			name:           "Empty list is a 404, not an empty 200",
			repo:           &MockNewsRepo{},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "no news", decodeMessage(t, rec))
			},
		},
		{
			name:           "Repository error",
			repo:           &MockNewsRepo{ListErr: errors.New("db down")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newHandler(tc.repo, &MockImageStore{})
			rec := httptest.NewRecorder()

			handler.HandleList(rec, httptest.NewRequest("GET", "/news", nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

func TestHandlePreviewLimitsToSix(t *testing.T) {
	repo := &MockNewsRepo{}
	for i := 0; i < 10; i++ {
		repo.Items = append(repo.Items, models.News{ID: string(rune('a' + i)), Title: "t"})
	}
	handler := newHandler(repo, &MockImageStore{})
	rec := httptest.NewRecorder()

	handler.HandlePreview(rec, httptest.NewRequest("GET", "/news/preview", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, repo.LastLimit)
	var resp struct {
		Data []NewsResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 6)
}

func TestHandleDetail(t *testing.T) {
	repo := &MockNewsRepo{Items: []models.News{{ID: "n1", Title: "Hello"}}}
	handler := newHandler(repo, &MockImageStore{})

	t.Run("Found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/news/n1", nil)
		req.SetPathValue("id", "n1")
		rec := httptest.NewRecorder()

		handler.HandleDetail(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/news/nope", nil)
		req.SetPathValue("id", "nope")
		rec := httptest.NewRecorder()

		handler.HandleDetail(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleOtherExcludesIDAndCapsAtThree(t *testing.T) {
	repo := &MockNewsRepo{Items: []models.News{
		{ID: "n1"}, {ID: "n2"}, {ID: "n3"}, {ID: "n4"}, {ID: "n5"},
	}}
	handler := newHandler(repo, &MockImageStore{})
	req := httptest.NewRequest("GET", "/news/other/n2", nil)
	req.SetPathValue("id", "n2")
	rec := httptest.NewRecorder()

	handler.HandleOther(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "n2", repo.LastExclude)
	assert.Equal(t, 3, repo.LastLimit)
	var resp struct {
		Data []NewsResponse `json:"data"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 3)
	for _, item := range resp.Data {
		assert.NotEqual(t, "n2", item.ID)
	}
}

func TestHandleCreate(t *testing.T) {
	t.Run("Missing image uploads and inserts nothing", func(t *testing.T) {
		repo := &MockNewsRepo{}
		images := &MockImageStore{}
		handler := newHandler(repo, images)
		req := multipartRequest(t, "POST", "/news/upload",
			map[string]string{"title": "T", "content": "C"}, false)
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "image file missing", decodeMessage(t, rec))
		assert.Empty(t, images.Uploads)
		assert.Nil(t, repo.Created)
	})

	t.Run("Success stores URL and key", func(t *testing.T) {
		repo := &MockNewsRepo{}
		images := &MockImageStore{}
		handler := newHandler(repo, images)
		req := multipartRequest(t, "POST", "/news/upload",
			map[string]string{"title": "T", "content": "C"}, true)
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, images.Uploads, 1)
		if assert.NotNil(t, repo.Created) {
			assert.Equal(t, "T", repo.Created.Title)
			assert.Equal(t, "C", repo.Created.Content)
			assert.NotNil(t, repo.Created.Image)
			assert.NotNil(t, repo.Created.ImageKey)
			assert.Equal(t, "https://cdn.test/"+*repo.Created.ImageKey, *repo.Created.Image)
		}
	})

	t.Run("Upload failure creates no record", func(t *testing.T) {
		repo := &MockNewsRepo{}
		images := &MockImageStore{UploadErr: errors.New("bucket down")}
		handler := newHandler(repo, images)
		req := multipartRequest(t, "POST", "/news/upload",
			map[string]string{"title": "T", "content": "C"}, true)
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Nil(t, repo.Created)
	})
}

func TestHandleEdit(t *testing.T) {
	oldKey := "old-key"
	oldURL := "https://cdn.test/old-key"

	t.Run("Missing record", func(t *testing.T) {
		handler := newHandler(&MockNewsRepo{}, &MockImageStore{})
		req := multipartRequest(t, "PATCH", "/news/edit/x", map[string]string{"title": "T"}, false)
		req.SetPathValue("id", "x")
		rec := httptest.NewRecorder()

		handler.HandleEdit(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("New image replaces the old blob", func(t *testing.T) {
		repo := &MockNewsRepo{Items: []models.News{
			{ID: "n1", Title: "Old", Image: &oldURL, ImageKey: &oldKey},
		}}
		images := &MockImageStore{}
		handler := newHandler(repo, images)
		req := multipartRequest(t, "PATCH", "/news/edit/n1",
			map[string]string{"title": "New", "content": "Body"}, true)
		req.SetPathValue("id", "n1")
		rec := httptest.NewRecorder()

		handler.HandleEdit(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"old-key"}, images.Deletes)
		assert.Len(t, images.Uploads, 1)
		if assert.NotNil(t, repo.Updated) {
			assert.Equal(t, "New", repo.Updated.Title)
			assert.NotEqual(t, oldKey, *repo.Updated.ImageKey)
		}
	})

	t.Run("Fields are overwritten even without a new image", func(t *testing.T) {
		repo := &MockNewsRepo{Items: []models.News{{ID: "n1", Title: "Old", Content: "Old"}}}
		images := &MockImageStore{}
		handler := newHandler(repo, images)
		req := multipartRequest(t, "PATCH", "/news/edit/n1",
			map[string]string{"title": "New"}, false)
		req.SetPathValue("id", "n1")
		rec := httptest.NewRecorder()

		handler.HandleEdit(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, images.Deletes)
		if assert.NotNil(t, repo.Updated) {
			assert.Equal(t, "New", repo.Updated.Title)
			// Omitted fields are written as empty, not kept.
			assert.Equal(t, "", repo.Updated.Content)
		}
	})
}

func TestHandleDelete(t *testing.T) {
	key := "k1"

	t.Run("Blob delete failure keeps the record", func(t *testing.T) {
		repo := &MockNewsRepo{Items: []models.News{{ID: "n1", ImageKey: &key}}}
		images := &MockImageStore{DeleteErr: errors.New("bucket down")}
		handler := newHandler(repo, images)
		req := httptest.NewRequest("DELETE", "/news/delete/n1", nil)
		req.SetPathValue("id", "n1")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, repo.Deleted)
	})

	t.Run("Success deletes blob then record", func(t *testing.T) {
		repo := &MockNewsRepo{Items: []models.News{{ID: "n1", ImageKey: &key}}}
		images := &MockImageStore{}
		handler := newHandler(repo, images)
		req := httptest.NewRequest("DELETE", "/news/delete/n1", nil)
		req.SetPathValue("id", "n1")
		rec := httptest.NewRecorder()

		handler.HandleDelete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"k1"}, images.Deletes)
		assert.Equal(t, []string{"n1"}, repo.Deleted)
	})
}
