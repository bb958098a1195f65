package data

import (
	"github.com/target/jobboard-api/internal/data/database"
	"github.com/target/jobboard-api/internal/domain/model"
)

const listingsTable = "listings"

var listingColumns = []string{
	"id", "title", "company", "location", "link", "posted", "source",
	"keyword", "category", "contract_type", "country_code", "country_name",
}

// listingQuery is the rendered plan of one search. Count and page share the
// same condition list, so both always see the same filter.
type listingQuery struct {
	CountSQL  string
	CountArgs []any
	PageSQL   string
	PageArgs  []any
}

func buildListingQuery(f model.ListingFilter) listingQuery {
	conds := listingConditions(f)

	countSQL, countArgs := database.BuildListQuery(database.NewListQueryOptions(listingsTable,
		database.WithCountOnly(),
		database.WithConditions(conds...),
	))
	pageSQL, pageArgs := database.BuildListQuery(database.NewListQueryOptions(listingsTable,
		database.WithColumns(listingColumns...),
		database.WithConditions(conds...),
		database.WithOrder(listingOrder(f)...),
		database.WithLimit(f.Limit),
		database.WithOffset(f.Offset),
	))

	return listingQuery{CountSQL: countSQL, CountArgs: countArgs, PageSQL: pageSQL, PageArgs: pageArgs}
}

func listingConditions(f model.ListingFilter) []database.Condition {
	var conds []database.Condition
	if len(f.Sources) > 0 {
		conds = append(conds, database.WhereCond("source", database.In, f.Sources))
	}
	if f.Keyword != "" {
		conds = append(conds, database.WhereCond("title", database.ContainsFold, f.Keyword))
	}
	if f.PostedSince != nil {
		conds = append(conds, database.WhereCond("posted", database.GreaterThanOrEqual, model.FormatPosted(*f.PostedSince)))
	}
	if len(f.Categories) > 0 {
		conds = append(conds, database.WhereCond("category", database.In, f.Categories))
	}
	if len(f.ContractTypes) > 0 {
		conds = append(conds, database.WhereCond("contract_type", database.In, f.ContractTypes))
	}
	if codes := f.CountryCodes(); len(codes) > 0 {
		conds = append(conds, database.WhereCond("country_code", database.In, codes))
	}
	if f.HasCountry != nil {
		if *f.HasCountry {
			conds = append(conds, database.WhereNotBlank("country_code"))
		} else {
			conds = append(conds, database.WhereBlank("country_code"))
		}
	}
	return conds
}

// listingOrder returns the primary key plus its tie-break: id DESC under a
// posted sort, posted DESC under any other.
func listingOrder(f model.ListingFilter) []database.OrderTerm {
	dir := string(f.SortDir)
	primary := database.OrderBy(f.SortBy.Column(), dir)
	if f.SortBy.IsText() {
		primary = database.OrderText(f.SortBy.Column(), dir)
	}
	if f.SortBy == model.SortPosted {
		return []database.OrderTerm{primary, database.OrderBy("id", string(model.SortDesc))}
	}
	return []database.OrderTerm{primary, database.OrderBy("posted", string(model.SortDesc))}
}
