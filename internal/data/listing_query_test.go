package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/target/jobboard-api/internal/domain/model"
)

const pageSelect = `SELECT "id", "title", "company", "location", "link", "posted", "source", "keyword", "category", "contract_type", "country_code", "country_name" FROM "listings"`

func TestBuildListingQuery_Default(t *testing.T) {
	q := buildListingQuery(model.DefaultListingFilter())

	assert.Equal(t, `SELECT COUNT(*) FROM "listings"`, q.CountSQL)
	assert.Empty(t, q.CountArgs)
	assert.Equal(t, pageSelect+` ORDER BY "posted" DESC, "id" DESC LIMIT $1 OFFSET $2`, q.PageSQL)
	assert.Equal(t, []any{20, 0}, q.PageArgs)
}

func TestBuildListingQuery_AllPredicates(t *testing.T) {
	since := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)
	has := true
	f := model.DefaultListingFilter()
	f.Sources = []string{"BNP", "SG"}
	f.Keyword = "analyst"
	f.PostedSince = &since
	f.Categories = []string{"Markets — Sales"}
	f.ContractTypes = []string{"cdi"}
	f.Countries = []string{"US"}
	f.ContinentCountries = []string{"FR", "US"}
	f.HasCountry = &has
	f.SortBy = model.SortCompany
	f.SortDir = model.SortAsc
	f.Limit = 50
	f.Offset = 100

	q := buildListingQuery(f)

	where := ` WHERE "source" IN ($1, $2)` +
		` AND LOWER("title") LIKE LOWER($3)` +
		` AND "posted" >= $4` +
		` AND "category" IN ($5)` +
		` AND "contract_type" IN ($6)` +
		` AND "country_code" IN ($7, $8)` +
		` AND ("country_code" IS NOT NULL AND "country_code" <> '')`
	wantArgs := []any{"BNP", "SG", "%analyst%", "2024-01-09T12:00:00Z", "Markets — Sales", "cdi", "US", "FR"}

	assert.Equal(t, `SELECT COUNT(*) FROM "listings"`+where, q.CountSQL)
	assert.Equal(t, wantArgs, q.CountArgs)

	assert.Equal(t, pageSelect+where+
		` ORDER BY ("company" IS NULL OR "company" = '') ASC, LOWER("company") ASC, "posted" DESC LIMIT $9 OFFSET $10`,
		q.PageSQL)
	assert.Equal(t, append(append([]any{}, wantArgs...), 50, 100), q.PageArgs)
}

func TestBuildListingQuery_CountAndPageShareArgs(t *testing.T) {
	f := model.DefaultListingFilter()
	f.Categories = []string{"Markets — Sales", "Markets — Trading"}
	f.Keyword = "100%"

	q := buildListingQuery(f)
	assert.Equal(t, q.CountArgs, q.PageArgs[:len(q.CountArgs)])
	assert.Len(t, q.PageArgs, len(q.CountArgs)+2)
}

func TestBuildListingQuery_KeywordKeepsSpaces(t *testing.T) {
	f := model.DefaultListingFilter()
	f.Keyword = " risk "

	q := buildListingQuery(f)
	assert.Equal(t, []any{"% risk %"}, q.CountArgs)
	assert.Equal(t, []any{"% risk %", 20, 0}, q.PageArgs)
}

func TestBuildListingQuery_HasCountryFalse(t *testing.T) {
	no := false
	f := model.DefaultListingFilter()
	f.HasCountry = &no

	q := buildListingQuery(f)
	assert.Equal(t, `SELECT COUNT(*) FROM "listings" WHERE ("country_code" IS NULL OR "country_code" = '')`, q.CountSQL)
}

func TestListingOrder(t *testing.T) {
	tests := []struct {
		name string
		by   model.SortColumn
		dir  model.SortDirection
		want string
	}{
		{name: "posted desc", by: model.SortPosted, dir: model.SortDesc, want: `ORDER BY "posted" DESC, "id" DESC`},
		{name: "posted asc keeps id desc", by: model.SortPosted, dir: model.SortAsc, want: `ORDER BY "posted" ASC, "id" DESC`},
		{name: "text desc keeps blanks last", by: model.SortTitle, dir: model.SortDesc, want: `ORDER BY ("title" IS NULL OR "title" = '') ASC, LOWER("title") DESC, "posted" DESC`},
		{name: "country alias", by: model.SortCountryCode, dir: model.SortAsc, want: `ORDER BY ("country_code" IS NULL OR "country_code" = '') ASC, LOWER("country_code") ASC, "posted" DESC`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := model.DefaultListingFilter()
			f.SortBy = tt.by
			f.SortDir = tt.dir
			q := buildListingQuery(f)
			assert.Contains(t, q.PageSQL, tt.want+" LIMIT")
		})
	}
}
