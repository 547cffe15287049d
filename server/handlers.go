package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"addressbook/server/models"
	"addressbook/version"
)

// ContactParams is the request body for create & update - the same shape
// for both, since updates replace the contact wholesale.
type ContactParams struct {
	Name         string              `json:"name" validate:"required,max=200"`
	Email        string              `json:"email" validate:"omitempty,email"`
	Phone        string              `json:"phone" validate:"omitempty,max=20"`
	PhoneNumbers []PhoneNumberParams `json:"phone_numbers" validate:"dive"`
	Addresses    []AddressParams     `json:"addresses" validate:"dive"`
	Tags         []string            `json:"tags" validate:"dive,required,max=50"`
}

type PhoneNumberParams struct {
	Number string `json:"number" validate:"required,max=20"`
}

type AddressParams struct {
	Address string `json:"address" validate:"required,max=500"`
}

func (params *ContactParams) toContact() *models.Contact {
	contact := models.Contact{
		Name:  params.Name,
		Email: params.Email,
		Phone: params.Phone,
	}

	for _, phoneNumber := range params.PhoneNumbers {
		contact.PhoneNumbers = append(contact.PhoneNumbers, models.PhoneNumber{Number: phoneNumber.Number})
	}
	for _, address := range params.Addresses {
		contact.Addresses = append(contact.Addresses, models.Address{Address: address.Address})
	}

	return &contact
}

func indexHandler(rw http.ResponseWriter, r *http.Request) {
	json.NewEncoder(rw).Encode(map[string]string{
		"message": "Address Book API",
		"version": version.Version,
	})
}

func createContactHandler(rw http.ResponseWriter, r *http.Request) {
	params := ContactParams{}

	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	if errs := validate.Struct(params); errs != nil {
		writeError(rw, http.StatusUnprocessableEntity, strings.Split(errs.Error(), "\n")...)
		return
	}

	contact := params.toContact()
	if err := models.CreateContact(contact, params.Tags); err != nil {
		writeModelError(rw, err)
		return
	}

	// Re-read the full aggregate, so the response carries the ids assigned
	// to children & tags.
	hydrated, err := models.FindContact(contact.ID)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(rw, hydrated, http.StatusCreated)
}

func findContactHandler(rw http.ResponseWriter, r *http.Request) {
	contact, err := models.FindContact(requestContactID(r))
	if err != nil {
		writeModelError(rw, err)
		return
	}

	writeResponse(rw, contact, http.StatusOK)
}

func updateContactHandler(rw http.ResponseWriter, r *http.Request) {
	params := ContactParams{}

	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	if errs := validate.Struct(params); errs != nil {
		writeError(rw, http.StatusUnprocessableEntity, strings.Split(errs.Error(), "\n")...)
		return
	}

	id := requestContactID(r)
	if err := models.UpdateContact(id, params.toContact(), params.Tags); err != nil {
		writeModelError(rw, err)
		return
	}

	hydrated, err := models.FindContact(id)
	if err != nil {
		writeModelError(rw, err)
		return
	}

	writeResponse(rw, hydrated, http.StatusOK)
}

func deleteContactHandler(rw http.ResponseWriter, r *http.Request) {
	if err := models.DeleteContact(requestContactID(r)); err != nil {
		writeModelError(rw, err)
		return
	}

	rw.WriteHeader(http.StatusNoContent)
}

func listContactsHandler(rw http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	page, err := models.ListContacts(params.Page, params.PageSize, params.SortBy, params.SortOrder)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(rw, page, http.StatusOK)
}

func searchContactsHandler(rw http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		writeError(rw, http.StatusBadRequest, err.Error())
		return
	}

	queryParams := r.URL.Query()
	page, err := models.SearchContacts(
		queryParams.Get("query"),
		queryParams.Get("tag"),
		params.Page, params.PageSize, params.SortBy, params.SortOrder,
	)
	if err != nil {
		writeError(rw, http.StatusInternalServerError, err.Error())
		return
	}

	writeResponse(rw, page, http.StatusOK)
}
