package orm_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/orm"
)

type widget struct {
	gorm.Model
	Name string
	Kind string
}

func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	database.DB = db
}

func seedWidgets(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		w := widget{Name: fmt.Sprintf("widget-%02d", i), Kind: "standard"}
		require.NoError(t, orm.DB().Create(&w))
	}
}

func TestGetWithPaginationEnvelope(t *testing.T) {
	setupDB(t)
	seedWidgets(t, 7)

	var page []widget
	p, err := orm.DB().Model(&widget{}).Order("id asc").GetWithPagination(&page, 1, 3)
	require.NoError(t, err)

	assert.Len(t, page, 3)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 3, p.LastPage, "last_page must be ceil(7/3)")
	assert.EqualValues(t, 7, p.Total)

	p, err = orm.DB().Model(&widget{}).Order("id asc").GetWithPagination(&page, 3, 3)
	require.NoError(t, err)
	assert.Len(t, page, 1, "final page holds the remainder")
	assert.Equal(t, 3, p.CurrentPage)
}

func TestGetWithPaginationClampsInput(t *testing.T) {
	setupDB(t)
	seedWidgets(t, 2)

	var page []widget
	p, err := orm.DB().Model(&widget{}).GetWithPagination(&page, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, orm.DefaultPerPage, p.PerPage)
	assert.Equal(t, 1, p.LastPage, "empty-ish table still reports page 1")
}

func TestSearchMatchesAnyColumn(t *testing.T) {
	setupDB(t)

	rows := []widget{
		{Name: "cardiology scanner", Kind: "imaging"},
		{Name: "infusion pump", Kind: "cardiology"},
		{Name: "wheelchair", Kind: "mobility"},
	}
	for i := range rows {
		require.NoError(t, orm.DB().Create(&rows[i]))
	}

	var got []widget
	require.NoError(t, orm.DB().Model(&widget{}).
		Search("cardiology", "name", "kind").
		Get(&got))

	assert.Len(t, got, 2, "term must match across name OR kind")
}

func TestDeleteReportsRowsAffected(t *testing.T) {
	setupDB(t)
	seedWidgets(t, 1)

	rows, err := orm.DB().Where("id = ?", 1).Delete(&widget{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = orm.DB().Where("id = ?", 999).Delete(&widget{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows, "missing row deletes nothing")
}

func TestIsNotFound(t *testing.T) {
	setupDB(t)

	var w widget
	err := orm.DB().Model(&widget{}).Where("id = ?", 42).First(&w)
	assert.True(t, orm.IsNotFound(err))
	assert.False(t, orm.IsNotFound(nil))
}
