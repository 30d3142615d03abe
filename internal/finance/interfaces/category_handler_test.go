package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseManager/internal/auth"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
	"github.com/sebuszqo/ExpenseManager/internal/finance/domain"
	"github.com/sebuszqo/ExpenseManager/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(svc *MockCategoryService) *CategoryHandler {
	return NewCategoryHandler(svc, logging.NewNopLogger(), respondJSON, respondError)
}

func authedRequest(method, target string, body []byte, ownerID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(auth.WithOwnerID(req.Context(), ownerID))
}

func errorMessage(t *testing.T, res *http.Response) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return payload["errorMessage"]
}

func TestGetCategories_ReturnsOwnersCategories(t *testing.T) {
	ownerID := uuid.New()
	mockService := &MockCategoryService{
		categories: []domain.CategoryDto{
			{ID: uuid.New(), Name: "Food", Description: "Groceries"},
			{ID: uuid.New(), Name: "Rent", Description: "Monthly rent"},
		},
	}
	w := httptest.NewRecorder()

	newHandler(mockService).GetCategories(w, authedRequest(http.MethodGet, "/api/categories", nil, ownerID))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, ownerID, mockService.lastOwnerID)

	var body []map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "Food", body[0]["categoryName"])
	assert.Equal(t, "Groceries", body[0]["description"])
	assert.NotEmpty(t, body[0]["id"])
}

func TestGetCategories_WithoutOwner(t *testing.T) {
	w := httptest.NewRecorder()

	newHandler(&MockCategoryService{}).GetCategories(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, appErrors.ErrMissingOwnerClaim.Error(), errorMessage(t, res))
}

func TestCreateCategory_DecodesRequest(t *testing.T) {
	ownerID := uuid.New()
	mockService := &MockCategoryService{}
	w := httptest.NewRecorder()
	body := []byte(`{"categoryName":"Travel","description":"Trips"}`)

	newHandler(mockService).CreateCategory(w, authedRequest(http.MethodPost, "/api/categories", body, ownerID))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, mockService.lastRequests, 1)
	assert.Equal(t, domain.CategoryRequest{Name: "Travel", Description: "Trips"}, mockService.lastRequests[0])

	var dto domain.CategoryDto
	require.NoError(t, json.NewDecoder(res.Body).Decode(&dto))
	assert.Equal(t, "Travel", dto.Name)
}

func TestCreateCategory_InvalidJSON(t *testing.T) {
	w := httptest.NewRecorder()

	newHandler(&MockCategoryService{}).CreateCategory(w, authedRequest(http.MethodPost, "/api/categories", []byte("{"), uuid.New()))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, appErrors.ErrInvalidArgument.Error(), errorMessage(t, res))
}

func TestCreateCategories_Batch(t *testing.T) {
	mockService := &MockCategoryService{}
	w := httptest.NewRecorder()
	body := []byte(`[{"categoryName":"A","description":"a"},{"categoryName":"B","description":"b"}]`)

	newHandler(mockService).CreateCategories(w, authedRequest(http.MethodPost, "/api/categories/batch", body, uuid.New()))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, mockService.lastRequests, 2)

	var dtos []domain.CategoryDto
	require.NoError(t, json.NewDecoder(res.Body).Decode(&dtos))
	assert.Len(t, dtos, 2)
}

func TestCreateCategories_DuplicateIsBadRequest(t *testing.T) {
	mockService := &MockCategoryService{err: appErrors.ErrCategoryAlreadyExists}
	w := httptest.NewRecorder()
	body := []byte(`[{"categoryName":"A","description":"a"}]`)

	newHandler(mockService).CreateCategories(w, authedRequest(http.MethodPost, "/api/categories/batch", body, uuid.New()))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Categories already exist", errorMessage(t, res))
}

func TestUpdateCategory_UsesPathID(t *testing.T) {
	ownerID, categoryID := uuid.New(), uuid.New()
	mockService := &MockCategoryService{}
	w := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/categories/"+categoryID.String(), []byte(`{"categoryName":"Bills","description":"Utilities"}`), ownerID)
	req.SetPathValue("id", categoryID.String())

	newHandler(mockService).UpdateCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, categoryID, mockService.lastCategoryID)
	assert.Equal(t, ownerID, mockService.lastOwnerID)
}

func TestUpdateCategory_MalformedID(t *testing.T) {
	w := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/categories/nope", []byte(`{"categoryName":"Bills","description":"Utilities"}`), uuid.New())
	req.SetPathValue("id", "nope")

	newHandler(&MockCategoryService{}).UpdateCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeleteCategory_ReturnsTrue(t *testing.T) {
	categoryID := uuid.New()
	mockService := &MockCategoryService{}
	w := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/categories/"+categoryID.String(), nil, uuid.New())
	req.SetPathValue("id", categoryID.String())

	newHandler(mockService).DeleteCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, categoryID, mockService.lastCategoryID)

	var deleted bool
	require.NoError(t, json.NewDecoder(res.Body).Decode(&deleted))
	assert.True(t, deleted)
}

func TestDeleteCategory_NotFound(t *testing.T) {
	categoryID := uuid.New()
	w := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/categories/"+categoryID.String(), nil, uuid.New())
	req.SetPathValue("id", categoryID.String())

	newHandler(&MockCategoryService{err: appErrors.ErrCategoryNotFound}).DeleteCategory(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Category not found; Invalid categoryId or userId", errorMessage(t, res))
}

func TestGetCategories_UnexpectedErrorIsHidden(t *testing.T) {
	mockService := &MockCategoryService{err: appErrors.Unexpected("find categories", errors.New("connection refused"))}
	w := httptest.NewRecorder()

	newHandler(mockService).GetCategories(w, authedRequest(http.MethodGet, "/api/categories", nil, uuid.New()))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, appErrors.MsgInternalError, errorMessage(t, res))
}
