package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without a live postgres.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=storefront dbname=storefront sslmode=disable",
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestRelatedToQuery(t *testing.T) {
	db := dryRunDB(t)

	testCases := []struct {
		name       string
		item       Item
		contains   []string
		notContain []string
	}{
		{
			name:       "Same category",
			item:       Item{ID: 7, CategoryID: uintPtr(3)},
			contains:   []string{"category_id = 3", "id <> 7", "is_active = true"},
			notContain: []string{"IS NULL"},
		},
		{
			name:       "Uncategorized item matches other uncategorized items",
			item:       Item{ID: 7},
			contains:   []string{"category_id IS NULL", "id <> 7", "is_active = true"},
			notContain: []string{"category_id ="},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
				return tx.Scopes(relatedTo(&tc.item)).Order("created_at DESC").Limit(4).Find(&[]Item{})
			})

			assert.Contains(t, sql, `FROM "items"`)
			assert.Contains(t, sql, "LIMIT 4")
			for _, s := range tc.contains {
				assert.Contains(t, sql, s)
			}
			for _, s := range tc.notContain {
				assert.NotContains(t, sql, s)
			}
		})
	}
}

func uintPtr(v uint) *uint {
	return &v
}
