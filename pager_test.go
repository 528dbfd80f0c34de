package pagebook_test

import (
	"math"
	"os"
	"testing"

	"github.com/bxcodec/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mjall/pagebook"
)

type member struct {
	ID   uint   `gorm:"primarykey" faker:"-"`
	Name string `faker:"name"`
}

// openGormDB connects to the database selected by the DB environment
// variable, defaulting to an in-memory SQLite database.
func openGormDB(t *testing.T) *gorm.DB {
	t.Helper()

	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var (
		db  *gorm.DB
		err error
	)
	switch os.Getenv("DB") {
	case "postgres":
		db, err = gorm.Open(postgres.Open(os.Getenv("DB_DSN")), config)
	case "mysql":
		db, err = gorm.Open(mysql.Open(os.Getenv("DB_DSN")), config)
	default:
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), config)
	}
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&member{}))
	require.NoError(t, db.AutoMigrate(&member{}))
	return db
}

func seedMembers(t *testing.T, db *gorm.DB, count int) []member {
	t.Helper()

	members := make([]member, count)
	for i := range members {
		require.NoError(t, faker.FakeData(&members[i]))
	}
	require.NoError(t, db.Create(&members).Error)
	return members
}

func TestNewPager(t *testing.T) {
	pager := pagebook.NewPager()
	assert.Equal(t, uint(0), pager.Page)
	assert.Equal(t, uint(10), pager.Size)
}

func TestPaginate(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 25)

	page, err := pagebook.Paginate[member](db.Order("id ASC"), &pagebook.Pager{Page: 1, Size: 10})
	require.NoError(t, err)

	require.Len(t, page.Items(), 10)
	assert.Equal(t, uint(11), page.Items()[0].ID)
	assert.Equal(t, uint(25), page.Total())
	assert.Equal(t, uint(3), page.Pages())

	previous, ok := page.PreviousPage()
	require.True(t, ok)
	assert.Equal(t, uint(0), previous)

	next, ok := page.NextPage()
	require.True(t, ok)
	assert.Equal(t, uint(2), next)
}

func TestPaginate_LastPage(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 25)

	page, err := pagebook.Paginate[member](db.Order("id ASC"), &pagebook.Pager{Page: 2, Size: 10})
	require.NoError(t, err)

	require.Len(t, page.Items(), 5)
	assert.Equal(t, uint(21), page.Items()[0].ID)

	_, ok := page.NextPage()
	assert.False(t, ok)
}

func TestPaginate_WithConditions(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 25)

	page, err := pagebook.Paginate[member](
		db.Where("id <= ?", 12).Order("id ASC"),
		&pagebook.Pager{Page: 0, Size: 5},
	)
	require.NoError(t, err)

	assert.Equal(t, uint(12), page.Total())
	assert.Equal(t, uint(3), page.Pages())
	require.Len(t, page.Items(), 5)
	assert.Equal(t, uint(1), page.Items()[0].ID)
}

func TestPagerValidate(t *testing.T) {
	assert.NoError(t, (&pagebook.Pager{Page: 3, Size: 10}).Validate())
	assert.NoError(t, (&pagebook.Pager{Page: 0, Size: 0}).Validate())
	assert.NoError(t, (&pagebook.Pager{Page: 0, Size: 1 << 61}).Validate())

	err := (&pagebook.Pager{Page: math.MaxUint / 2, Size: 3}).Validate()
	require.Error(t, err)
	assert.True(t, pagebook.IsInvalidValue(err))
}

// An oversized window that still fits in an offset is valid and must not be
// trusted as an allocation capacity.
func TestPaginate_HugeSize(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 5)

	page, err := pagebook.Paginate[member](db.Order("id ASC"), &pagebook.Pager{Page: 0, Size: 1 << 61})
	require.NoError(t, err)

	require.Len(t, page.Items(), 5)
	assert.Equal(t, uint(5), page.Total())
	assert.Equal(t, uint(1), page.Pages())
}

func TestPaginate_OverflowingPager(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 5)

	_, err := pagebook.Paginate[member](db, &pagebook.Pager{Page: math.MaxUint / 2, Size: 3})
	require.Error(t, err)
	assert.True(t, pagebook.IsInvalidValue(err))
}

// A window beyond the expressible offset saturates and selects nothing
// instead of wrapping around to the first page.
func TestPagerScope_SaturatesOffset(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 5)

	pager := &pagebook.Pager{Page: math.MaxUint / 2, Size: 3}

	var items []member
	require.NoError(t, db.Scopes(pager.Scope()).Find(&items).Error)
	assert.Empty(t, items)
}

func TestPaginate_PageOutOfRange(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 5)

	_, err := pagebook.Paginate[member](db, &pagebook.Pager{Page: 10, Size: 2})
	require.Error(t, err)
	assert.True(t, pagebook.IsInvalidValue(err))
	assert.EqualError(t, err, "invalid value error: page index '10' exceeds total pages '3'")
}

func TestPaginate_DatabaseError(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 5)

	_, err := pagebook.Paginate[member](db.Table("missing_table"), &pagebook.Pager{Page: 0, Size: 2})
	require.Error(t, err)
	assert.True(t, pagebook.IsDatabaseError(err))
}

func TestPagerScope(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 25)

	pager := &pagebook.Pager{Page: 2, Size: 10}

	var items []member
	require.NoError(t, db.Order("id ASC").Scopes(pager.Scope()).Find(&items).Error)
	require.Len(t, items, 5)
	assert.Equal(t, uint(21), items[0].ID)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC, id ASC", pagebook.OrderBy("CreatedAt", "ID")(pagebook.DESC, pagebook.ASC))
	assert.Equal(t, "name ASC", pagebook.OrderBy("Name")(pagebook.ASC))

	assert.Panics(t, func() {
		pagebook.OrderBy("CreatedAt", "ID")(pagebook.ASC)
	})
}

func TestOrderBy_WithPaginate(t *testing.T) {
	db := openGormDB(t)
	seedMembers(t, db, 25)

	page, err := pagebook.Paginate[member](
		db.Order(pagebook.OrderBy("ID")(pagebook.DESC)),
		&pagebook.Pager{Page: 0, Size: 10},
	)
	require.NoError(t, err)

	require.Len(t, page.Items(), 10)
	assert.Equal(t, uint(25), page.Items()[0].ID)
}
