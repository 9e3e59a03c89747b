// Package controllers holds the HTTP handlers. Controllers bind and
// validate input, call a service or repository, and write the JSON
// envelope; they carry no business rules of their own.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/medicore/pkg/bind"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/response"
	"github.com/shashiranjanraj/medicore/pkg/validate"
)

// paramID parses the {id} route parameter. ok is false when it is not a
// positive integer; the caller should respond 404.
func paramID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?page= and ?per_page= with defaults.
func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = orm.DefaultPerPage
	}
	return page, perPage
}

// bindJSON decodes and validates the body, writing the error response
// itself. Returns false when the handler should stop.
func bindJSON(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
