package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"addressbook/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()

	newRouter().ServeHTTP(recorder, request)
	return recorder
}

func decodeContact(t *testing.T, recorder *httptest.ResponseRecorder) *models.Contact {
	contact := models.Contact{}
	require.Nil(t, json.NewDecoder(recorder.Body).Decode(&contact))
	return &contact
}

func TestContactLifecycle(t *testing.T) {
	models.InitializeTestDb()

	response := performRequest("POST", "/contacts", `{
		"name": "John Doe",
		"phone_numbers": [{"number": "9876543210"}],
		"tags": ["friend"]
	}`)
	require.Equal(t, http.StatusCreated, response.Code)

	contact := decodeContact(t, response)
	assert.NotZero(t, contact.ID)
	assert.Equal(t, "John Doe", contact.Name)
	require.Len(t, contact.PhoneNumbers, 1)
	require.Len(t, contact.Tags, 1)
	assert.Equal(t, "friend", contact.Tags[0].Name)

	// A second contact with the same number is rejected.
	response = performRequest("POST", "/contacts", `{
		"name": "Jane Doe",
		"phone_numbers": [{"number": "9876543210"}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, response.Code)
	assert.Contains(t, response.Body.String(), "9876543210")

	response = performRequest("GET", "/contacts/search?tag=friend", "")
	require.Equal(t, http.StatusOK, response.Code)

	page := models.ContactPage{}
	require.Nil(t, json.NewDecoder(response.Body).Decode(&page))
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "John Doe", page.Contacts[0].Name)

	response = performRequest("DELETE", fmt.Sprintf("/contacts/%v", contact.ID), "")
	assert.Equal(t, http.StatusNoContent, response.Code)

	response = performRequest("GET", fmt.Sprintf("/contacts/%v", contact.ID), "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestCreateContactWithRepeatedNumberInPayload(t *testing.T) {
	models.InitializeTestDb()

	// The same number twice in one payload is only caught by the unique
	// index, since the pre-check compares against existing rows.
	response := performRequest("POST", "/contacts", `{
		"name": "John Doe",
		"phone_numbers": [{"number": "9876543210"}, {"number": "9876543210"}]
	}`)
	require.Equal(t, http.StatusUnprocessableEntity, response.Code)
	assert.Contains(t, response.Body.String(), "9876543210")

	// No partial state survives the rollback.
	response = performRequest("GET", "/contacts", "")
	require.Equal(t, http.StatusOK, response.Code)

	page := models.ContactPage{}
	require.Nil(t, json.NewDecoder(response.Body).Decode(&page))
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Contacts)
}

func TestCreateContactValidation(t *testing.T) {
	models.InitializeTestDb()

	// Malformed body
	response := performRequest("POST", "/contacts", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, response.Code)

	// Missing name
	response = performRequest("POST", "/contacts", `{"email": "a@b.com"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, response.Code)

	// Invalid email
	response = performRequest("POST", "/contacts", `{"name": "John", "email": "not-an-email"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, response.Code)

	// Empty phone number entry
	response = performRequest("POST", "/contacts", `{"name": "John", "phone_numbers": [{"number": ""}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, response.Code)
}

func TestFindContactHandler(t *testing.T) {
	models.InitializeTestDb()

	response := performRequest("POST", "/contacts", `{"name": "John Doe", "email": "john@example.com"}`)
	require.Equal(t, http.StatusCreated, response.Code)
	created := decodeContact(t, response)

	response = performRequest("GET", fmt.Sprintf("/contacts/%v", created.ID), "")
	require.Equal(t, http.StatusOK, response.Code)

	found := decodeContact(t, response)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "john@example.com", found.Email)

	response = performRequest("GET", "/contacts/999", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestUpdateContactHandler(t *testing.T) {
	models.InitializeTestDb()

	response := performRequest("PUT", "/contacts/999", `{"name": "Nobody"}`)
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = performRequest("POST", "/contacts", `{
		"name": "John Doe",
		"phone_numbers": [{"number": "9876543210"}]
	}`)
	require.Equal(t, http.StatusCreated, response.Code)
	created := decodeContact(t, response)

	// Full replace, keeping the contact's own number.
	response = performRequest("PUT", fmt.Sprintf("/contacts/%v", created.ID), `{
		"name": "John A. Doe",
		"phone_numbers": [{"number": "9876543210"}],
		"tags": ["work"]
	}`)
	require.Equal(t, http.StatusOK, response.Code)

	updated := decodeContact(t, response)
	assert.Equal(t, "John A. Doe", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "work", updated.Tags[0].Name)
}

func TestListContactsHandler(t *testing.T) {
	models.InitializeTestDb()

	for i := 1; i <= 3; i++ {
		response := performRequest("POST", "/contacts", fmt.Sprintf(`{"name": "Contact %v"}`, i))
		require.Equal(t, http.StatusCreated, response.Code)
	}

	response := performRequest("GET", "/contacts?page=1&page_size=2&sort_by=name&sort_order=asc", "")
	require.Equal(t, http.StatusOK, response.Code)

	page := models.ContactPage{}
	require.Nil(t, json.NewDecoder(response.Body).Decode(&page))
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, int64(2), page.TotalPages)
	assert.Len(t, page.Contacts, 2)
}

func TestListContactsHandlerRejectsBadParams(t *testing.T) {
	models.InitializeTestDb()

	for _, path := range []string{
		"/contacts?page=0",
		"/contacts?page=abc",
		"/contacts?page_size=0",
		"/contacts?page_size=101",
		"/contacts?sort_by=height",
		"/contacts?sort_order=sideways",
	} {
		response := performRequest("GET", path, "")
		assert.Equal(t, http.StatusBadRequest, response.Code, "expected %v to be rejected", path)
	}
}

func TestSearchContactsHandler(t *testing.T) {
	models.InitializeTestDb()

	response := performRequest("POST", "/contacts", `{"name": "John Doe", "tags": ["friend"]}`)
	require.Equal(t, http.StatusCreated, response.Code)
	response = performRequest("POST", "/contacts", `{"name": "Jane Smith", "tags": ["work"]}`)
	require.Equal(t, http.StatusCreated, response.Code)

	response = performRequest("GET", "/contacts/search?query=john&tag=friend", "")
	require.Equal(t, http.StatusOK, response.Code)

	page := models.ContactPage{}
	require.Nil(t, json.NewDecoder(response.Body).Decode(&page))
	require.Len(t, page.Contacts, 1)
	assert.Equal(t, "John Doe", page.Contacts[0].Name)

	response = performRequest("GET", "/contacts/search?sort_by=height", "")
	assert.Equal(t, http.StatusBadRequest, response.Code)
}
