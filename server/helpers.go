package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"addressbook/server/models"
	"addressbook/shared"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

type ErrorPayload struct {
	Errors []string `json:"errors"`
}

type listParams struct {
	Page      int    `validate:"min=1"`
	PageSize  int    `validate:"min=1,max=100"`
	SortBy    string `validate:"oneof=name email created_at id"`
	SortOrder string `validate:"oneof=asc desc"`
}

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payload interface{}, statusCode int) {
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payload)
}

func writeError(rw http.ResponseWriter, statusCode int, errs ...string) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(errs)
	} else {
		logg.Info(errs)
	}

	writeResponse(rw, ErrorPayload{Errors: errs}, statusCode)
}

// writeModelError translates model-layer errors into the status codes of
// the API contract: unknown ids map to 404, duplicate phone numbers &
// addresses to 422, anything else to 500.
func writeModelError(rw http.ResponseWriter, err error) {
	var duplicateErr *models.DuplicateValueError

	switch {
	case errors.Is(err, models.ErrContactNotFound):
		writeError(rw, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicateErr):
		writeError(rw, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(rw, http.StatusInternalServerError, err.Error())
	}
}

// parseListParams reads pagination & sorting params off the query string,
// falling back to the documented defaults. Out-of-range values are
// rejected rather than clamped.
func parseListParams(r *http.Request) (*listParams, error) {
	params := &listParams{
		Page:      1,
		PageSize:  models.DEFAULT_PAGE_SIZE,
		SortBy:    "name",
		SortOrder: "asc",
	}
	queryParams := r.URL.Query()

	var err error
	if value := queryParams.Get("page"); value != "" {
		if params.Page, err = strconv.Atoi(value); err != nil {
			return nil, fmt.Errorf("'page' must be a number")
		}
	}
	if value := queryParams.Get("page_size"); value != "" {
		if params.PageSize, err = strconv.Atoi(value); err != nil {
			return nil, fmt.Errorf("'page_size' must be a number")
		}
	}
	if value := queryParams.Get("sort_by"); value != "" {
		params.SortBy = value
	}
	if value := queryParams.Get("sort_order"); value != "" {
		params.SortOrder = value
	}

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	return params, nil
}

func requestContactID(r *http.Request) int {
	// The route pattern guarantees a numeric id
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func parseServerConfig(config *viper.Viper) *shared.ServerConfig {
	serverConfig := shared.ServerConfig{}

	fatalOnError(config.Unmarshal(&serverConfig))
	fatalOnError(validate.Struct(serverConfig))

	return &serverConfig
}

func serve(server *http.Server) {
	logg.Infof("Addressbook server is listening on port%v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

func cleanup(server *http.Server) {
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Fatalf("Addressbook server shutdown failed: %+s", err)
	}

	logg.Infof("Addressbook server stopped properly")
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
