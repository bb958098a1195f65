package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/target/jobboard-api/internal/bootstrap"
	"github.com/target/jobboard-api/internal/domain/model"
)

// importRecord is the file shape accepted by import-listings. JSON input
// decodes through the same tags since JSON is a YAML subset.
type importRecord struct {
	ID           string  `yaml:"id"`
	Title        string  `yaml:"title"`
	Company      *string `yaml:"company"`
	Location     *string `yaml:"location"`
	Link         string  `yaml:"link"`
	Posted       string  `yaml:"posted"`
	Source       string  `yaml:"source"`
	Keyword      *string `yaml:"keyword"`
	Category     *string `yaml:"category"`
	ContractType *string `yaml:"contract_type"`
	CountryCode  *string `yaml:"country_code"`
	CountryName  *string `yaml:"country_name"`
}

func (r importRecord) listing() model.Listing {
	return model.Listing{
		ID:           r.ID,
		Title:        r.Title,
		Company:      r.Company,
		Location:     r.Location,
		Link:         r.Link,
		Posted:       r.Posted,
		Source:       r.Source,
		Keyword:      r.Keyword,
		Category:     r.Category,
		ContractType: r.ContractType,
		CountryCode:  r.CountryCode,
		CountryName:  r.CountryName,
	}
}

// decodeListings reads a sequence of listing documents. Both a top-level
// list and a {listings: [...]} wrapper are accepted.
func decodeListings(r io.Reader) ([]model.Listing, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	var records []importRecord
	var decodeErr error
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		decodeErr = root.Decode(&records)
	case yaml.MappingNode:
		var wrapper struct {
			Listings []importRecord `yaml:"listings"`
		}
		decodeErr = root.Decode(&wrapper)
		records = wrapper.Listings
	default:
		return nil, fmt.Errorf("decode listings: expected a list or a listings key at line %d", root.Line)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode listings: %w", decodeErr)
	}

	out := make([]model.Listing, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.listing())
	}
	return out, nil
}

func runImportListings(cmdCtx *commandContext, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: jobboard-admin import-listings FILE (use - for stdin)")
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open listings file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				cmdCtx.Logger.Warn("close listings file failed", "error", cerr)
			}
		}()
		in = f
	}

	listings, err := decodeListings(in)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return writeln(cmdCtx.Out, "no listings to import")
	}

	return withServices(cmdCtx, bootstrap.InfraNeeds{Listings: true},
		func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
			n, importErr := svcs.Listings.Import(ctx, listings)
			if importErr != nil {
				return importErr
			}
			return writef(cmdCtx.Out, "imported %d listings\n", n)
		})
}

// parseSearchArgs turns key=value arguments into query parameters. A key
// may repeat, as it can in a query string.
func parseSearchArgs(args []string) (url.Values, error) {
	q := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid search argument %q, want key=value", arg)
		}
		q.Add(strings.TrimSpace(key), value)
	}
	return q, nil
}

func runSearch(cmdCtx *commandContext, args []string) error {
	q, err := parseSearchArgs(args)
	if err != nil {
		return err
	}
	return withServices(cmdCtx, bootstrap.InfraNeeds{Listings: true},
		func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
			page, searchErr := svcs.Listings.SearchQuery(ctx, q)
			if searchErr != nil {
				return searchErr
			}
			return printListings(cmdCtx.Out, page)
		})
}

type tableColumn struct {
	title string
	width int
	value func(l *model.Listing) string
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

var listingColumns = []tableColumn{
	{title: "POSTED", width: 20, value: func(l *model.Listing) string { return l.Posted }},
	{title: "SOURCE", width: 10, value: func(l *model.Listing) string { return l.Source }},
	{title: "COUNTRY", width: 7, value: func(l *model.Listing) string { return deref(l.CountryCode) }},
	{title: "CATEGORY", width: 22, value: func(l *model.Listing) string { return deref(l.Category) }},
	{title: "COMPANY", width: 20, value: func(l *model.Listing) string { return deref(l.Company) }},
	{title: "TITLE", width: 40, value: func(l *model.Listing) string { return l.Title }},
}

// printListings renders a page as a fixed-width table. Cells are measured
// in terminal columns so wide runes stay aligned.
func printListings(w io.Writer, page *model.ListingPage) error {
	if page == nil {
		page = &model.ListingPage{}
	}
	var sb strings.Builder
	writeRow(&sb, func(c tableColumn) string { return c.title })
	for i := range page.Listings {
		l := &page.Listings[i]
		writeRow(&sb, func(c tableColumn) string { return c.value(l) })
	}
	sb.WriteString("\nshowing ")
	sb.WriteString(strconv.Itoa(len(page.Listings)))
	sb.WriteString(" of ")
	sb.WriteString(strconv.Itoa(page.Total))
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, cell func(c tableColumn) string) {
	for i, col := range listingColumns {
		text := strings.Join(strings.Fields(cell(col)), " ")
		text = runewidth.Truncate(text, col.width, "…")
		if i == len(listingColumns)-1 {
			sb.WriteString(text)
			break
		}
		sb.WriteString(runewidth.FillRight(text, col.width))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
}

func runCheckPosted(cmdCtx *commandContext, args []string) error {
	if len(args) != 0 {
		return errors.New("usage: jobboard-admin check-posted")
	}
	return withServices(cmdCtx, bootstrap.InfraNeeds{Listings: true},
		func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
			bad, err := svcs.Listings.CheckPostedFormat(ctx)
			if err != nil {
				return err
			}
			if bad == 0 {
				return writeln(cmdCtx.Out, "all posted values are in fixed-width UTC form")
			}
			return writef(cmdCtx.Out, "%d listings have a malformed posted value\n", bad)
		})
}

func runDigest(cmdCtx *commandContext, args []string) error {
	if len(args) != 0 {
		return errors.New("usage: jobboard-admin run-digest")
	}
	return withServices(cmdCtx, bootstrap.AllInfra,
		func(ctx context.Context, svcs bootstrap.ServiceContainer) error {
			if svcs.Digest == nil {
				return errors.New("alert digest is unavailable: user data store is not configured")
			}
			summary, err := svcs.Digest.RunOnce(ctx)
			if err != nil {
				return err
			}
			return writef(cmdCtx.Out, "users=%d alerts=%d matches=%d failed=%d\n",
				summary.Users, summary.Alerts, summary.Matches, summary.Failed)
		})
}
