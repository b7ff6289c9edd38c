package partner

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
	"github.com/xanhenergy/xanhenergy-admin/internal/db/query"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Partner{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func strptr(s string) *string { return &s }

func seedPartners(t *testing.T, db *gorm.DB) []models.Partner {
	t.Helper()

	partners := []models.Partner{
		{
			Name:     "Vestas",
			Category: strptr("wind"),
			Country:  strptr("Denmark"),
			Status:   models.PartnerStatusActive,
			Priority: 1,
		},
		{
			Name:     "First Solar",
			Category: strptr("solar"),
			Country:  strptr("USA"),
			Status:   models.PartnerStatusActive,
			Priority: 2,
		},
		{
			Name:     "Legacy Grid Co",
			Category: strptr("wind"),
			Country:  strptr("USA"),
			Status:   models.PartnerStatusInactive,
			Priority: 3,
		},
	}

	for i := range partners {
		require.NoError(t, Create(db, &partners[i]))
	}

	return partners
}

func TestCreate_AssignsID(t *testing.T) {
	db := setupTestDB(t)

	p := models.Partner{Name: "Vestas", Status: models.PartnerStatusActive}
	require.NoError(t, Create(db, &p))

	assert.Len(t, p.ID, models.IDLen)
}

func TestList_FilterByCategoryAndCountry(t *testing.T) {
	db := setupTestDB(t)
	seedPartners(t, db)

	items, _, err := List(db, Filter{Category: "wind"}, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, _, err = List(db, Filter{Category: "wind", Country: "USA"}, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Legacy Grid Co", items[0].Name)
}

func TestList_FilterAllIsNoFilter(t *testing.T) {
	db := setupTestDB(t)
	seedPartners(t, db)

	items, pagination, err := List(db, Filter{Category: "all", Status: "all"}, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int64(3), pagination.Total)
}

func TestList_SearchIsCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	seedPartners(t, db)

	items, _, err := List(db, Filter{Query: "vesta"}, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Vestas", items[0].Name)
}

func TestUpdate_DropsUnknownFields(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedPartners(t, db)

	updated, err := Update(db, Selector{ID: seeded[0].ID}, map[string]any{
		"projects":  12,
		"id":        "hacked",
		"createdAt": "2001-01-01",
		"bogus":     true,
	})
	require.NoError(t, err)

	assert.Equal(t, seeded[0].ID, updated.ID)
	assert.Equal(t, 12, updated.Projects)
}

func TestUpdate_MissingSelector(t *testing.T) {
	db := setupTestDB(t)

	_, err := Update(db, Selector{}, map[string]any{"name": "x"})
	require.ErrorIs(t, err, ErrMissingSelector)
}

func TestDelete_ReturnsRow(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedPartners(t, db)

	deleted, err := Delete(db, Selector{ID: seeded[1].ID})
	require.NoError(t, err)
	assert.Equal(t, "First Solar", deleted.Name)

	_, err = Get(db, Selector{ID: seeded[1].ID})
	require.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestDeleteByIDs_CountsOnlyExisting(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedPartners(t, db)

	count, err := DeleteByIDs(db, []string{seeded[0].ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
