package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobboard-api/internal/data/database"
	"github.com/target/jobboard-api/internal/data/pgxutil"
	"github.com/target/jobboard-api/internal/domain/model"
)

// postedFormatPattern is the Postgres regex for model.PostedLayout.
const postedFormatPattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}Z$`

const listingUpsertSQL = `
	INSERT INTO listings (
		id, title, company, location, link, posted, source,
		keyword, category, contract_type, country_code, country_name
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		company = EXCLUDED.company,
		location = EXCLUDED.location,
		link = EXCLUDED.link,
		posted = EXCLUDED.posted,
		source = EXCLUDED.source,
		keyword = EXCLUDED.keyword,
		category = EXCLUDED.category,
		contract_type = EXCLUDED.contract_type,
		country_code = EXCLUDED.country_code,
		country_name = EXCLUDED.country_name`

// ListingRepo reads the listings table.
type ListingRepo struct {
	DB *sql.DB
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{DB: db}
}

// Search runs the count and page queries for f in one read-only snapshot.
// Either both succeed or an error is returned with no rows.
func (r *ListingRepo) Search(ctx context.Context, f model.ListingFilter) (*model.ListingPage, error) {
	q := buildListingQuery(f)
	page := &model.ListingPage{Listings: []model.Listing{}}

	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: pgxutil.ReadOnlySnapshot,
		Fn: func(tx pgx.Tx) error {
			if err := tx.QueryRow(ctx, q.CountSQL, q.CountArgs...).Scan(&page.Total); err != nil {
				return fmt.Errorf("count listings: %w", err)
			}
			if page.Total == 0 || f.Offset >= page.Total {
				return nil
			}
			rows, err := tx.Query(ctx, q.PageSQL, q.PageArgs...)
			if err != nil {
				return fmt.Errorf("query listings: %w", err)
			}
			listings, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Listing])
			if err != nil {
				return fmt.Errorf("scan listings: %w", err)
			}
			page.Listings = listings
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetByID returns one listing or ErrListingNotFound.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions(listingsTable,
		database.WithColumns(listingColumns...),
		database.WithCondition(database.WhereCond("id", database.Equal, id)),
	))

	var out model.Listing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Listing])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing by ID: %w", err)
	}
	return &out, nil
}

// CheckPostedFormat counts rows whose posted value is not fixed-width
// YYYY-MM-DDTHH:MM:SSZ. Range filters and posted ordering compare text, so
// any such row sorts and filters incorrectly.
func (r *ListingRepo) CheckPostedFormat(ctx context.Context) (int, error) {
	var n int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM listings WHERE posted IS NULL OR posted !~ $1`,
			postedFormatPattern,
		).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("check posted format: %w", err)
	}
	return n, nil
}

// Upsert inserts or replaces listings by id in one transaction.
func (r *ListingRepo) Upsert(ctx context.Context, listings []model.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}
	for i := range listings {
		if !model.ValidPosted(listings[i].Posted) {
			return 0, fmt.Errorf("listing %q: %w", listings[i].ID, ErrInvalidPosted)
		}
	}

	written := 0
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
		Fn: func(tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for i := range listings {
				l := &listings[i]
				batch.Queue(listingUpsertSQL,
					l.ID, l.Title, l.Company, l.Location, l.Link, l.Posted, l.Source,
					l.Keyword, l.Category, l.ContractType, l.CountryCode, l.CountryName,
				)
			}

			br := tx.SendBatch(ctx, batch)
			defer func() { _ = br.Close() }()
			for i := range listings {
				if _, err := br.Exec(); err != nil {
					return fmt.Errorf("upsert listing %q: %w", listings[i].ID, err)
				}
				written++
			}
			return br.Close()
		},
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}
