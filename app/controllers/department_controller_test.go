package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/medicore/app/controllers"
	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/database"
)

func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.BedAllotment{},
		&models.OrderNotification{},
	))

	database.DB = db
}

func departmentRouter() chi.Router {
	c := controllers.NewDepartmentController()
	r := chi.NewRouter()
	r.Post("/add-department", c.Add)
	r.Post("/update-department/{id}", c.Update)
	r.Delete("/delete-department/{id}", c.Delete)
	r.Get("/department/{id}", c.Show)
	r.Get("/departments", c.List)
	r.Get("/search-departments", c.Search)
	return r
}

func do(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAddDepartment(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	rec := do(t, r, http.MethodPost, "/add-department",
		`{"name":"Cardiology","slug":"cardiology","description":"Heart care"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var n int64
	require.NoError(t, database.DB.Model(&models.Department{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestDuplicateSlugIsValidationErrorNotServerError(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	rec := do(t, r, http.MethodPost, "/add-department",
		`{"name":"Cardiology","slug":"cardiology"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/add-department",
		`{"name":"Cardiology Two","slug":"cardiology"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "duplicate slug must not surface as 500")

	body := decode(t, rec)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "expected field errors, got: %s", rec.Body.String())
	assert.Contains(t, errs, "slug")
}

func TestUpdateDepartmentKeepsOwnSlug(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	require.NoError(t, database.DB.Create(&models.Department{Name: "Cardiology", Slug: "cardiology"}).Error)
	require.NoError(t, database.DB.Create(&models.Department{Name: "Radiology", Slug: "radiology"}).Error)

	// Re-submitting its own slug is allowed.
	rec := do(t, r, http.MethodPost, "/update-department/1",
		`{"name":"Cardiology Unit","slug":"cardiology"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Taking the other department's slug is not.
	rec = do(t, r, http.MethodPost, "/update-department/1",
		`{"name":"Cardiology Unit","slug":"radiology"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDepartment(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	require.NoError(t, database.DB.Create(&models.Department{Name: "Cardiology", Slug: "cardiology"}).Error)

	rec := do(t, r, http.MethodDelete, "/delete-department/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodDelete, "/delete-department/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "second delete finds nothing")
}

func TestDepartmentListIsTwoPerPage(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	for i := 1; i <= 5; i++ {
		d := models.Department{Name: fmt.Sprintf("Dept %d", i), Slug: fmt.Sprintf("dept-%d", i)}
		require.NoError(t, database.DB.Create(&d).Error)
	}

	rec := do(t, r, http.MethodGet, "/departments?page=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["data"], 2)
	assert.EqualValues(t, 1, body["current_page"])
	assert.EqualValues(t, 3, body["last_page"], "last_page must be ceil(5/2)")
	assert.EqualValues(t, 5, body["total"])

	// Asking for a bigger page size changes nothing.
	rec = do(t, r, http.MethodGet, "/departments?page=1&per_page=50", "")
	body = decode(t, rec)
	assert.Len(t, body["data"], 2, "per_page is fixed for departments")
}

func TestSearchDepartments(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	require.NoError(t, database.DB.Create(&models.Department{Name: "Cardiology", Slug: "cardiology"}).Error)
	require.NoError(t, database.DB.Create(&models.Department{Name: "Radiology", Slug: "radiology"}).Error)
	require.NoError(t, database.DB.Create(&models.Department{Name: "Pathology", Slug: "pathology"}).Error)

	rec := do(t, r, http.MethodGet, "/search-departments?q=radio", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["data"], 1)
}

func TestShowMissingDepartment(t *testing.T) {
	setupDB(t)
	r := departmentRouter()

	rec := do(t, r, http.MethodGet, "/department/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/department/not-a-number", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
