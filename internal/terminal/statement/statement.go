// Package statement reads an MT5 "History" report saved as HTML. The
// terminal can be scripted to re-save the report periodically, which
// makes the file a read-only terminal for hosts where no bridge runs.
package statement

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"account-monitor/internal/interfaces"
	"account-monitor/internal/types"
)

const timeLayout = "2006.01.02 15:04:05"

type Params struct {
	Path string
	// Location of the report timestamps; time.Local when nil.
	Location *time.Location
}

type Terminal struct {
	p Params
}

var _ interfaces.Terminal = (*Terminal)(nil)

func New(p Params) *Terminal {
	if p.Location == nil {
		p.Location = time.Local
	}
	return &Terminal{p: p}
}

// Report is the parsed content of one history report.
type Report struct {
	Account *types.AccountSnapshot
	Deals   []types.Deal
}

func (t *Terminal) Connect(ctx context.Context) error {
	if _, err := t.load(); err != nil {
		return fmt.Errorf("statement unavailable: %w", err)
	}
	return nil
}

func (t *Terminal) AccountInfo(ctx context.Context) (*types.AccountSnapshot, error) {
	r, err := t.load()
	if err != nil {
		return nil, err
	}
	return r.Account, nil
}

func (t *Terminal) HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error) {
	r, err := t.load()
	if err != nil {
		return nil, err
	}
	deals := make([]types.Deal, 0, len(r.Deals))
	for _, d := range r.Deals {
		if d.Time.Before(from) || d.Time.After(to) {
			continue
		}
		deals = append(deals, d)
	}
	return deals, nil
}

func (t *Terminal) Close(ctx context.Context) {}

func (t *Terminal) load() (*Report, error) {
	f, err := os.Open(t.p.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, t.p.Location)
}

// Parse reads a report. The terminal writes UTF-16 with a BOM; UTF-8
// input is accepted as well.
func Parse(r io.Reader, loc *time.Location) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	var (
		acct     types.AccountSnapshot
		report   Report
		inDeals  bool
		columns  map[string]int
		parseErr error
	)

	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := rowCells(row)
		if len(cells) == 0 {
			return true
		}

		for label, value := range labelled(cells) {
			switch label {
			case "Account:":
				acct.ID = leadingInt(value)
			case "Company:":
				acct.Broker = value
			case "Balance:":
				acct.Balance = parseAmount(value)
			case "Equity:":
				acct.Equity = parseAmount(value)
			}
		}

		switch {
		case len(cells) == 1 && cells[0] == "Deals":
			inDeals, columns = true, nil
		case inDeals && columns == nil:
			columns = headerIndex(cells)
		case inDeals:
			d, ok, err := parseDeal(cells, columns, loc)
			if err != nil {
				parseErr = err
				return false
			}
			if !ok {
				inDeals = false
				return true
			}
			report.Deals = append(report.Deals, d)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if acct.ID != 0 {
		report.Account = &acct
	}
	return &report, nil
}

func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, c *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(c.Text()))
	})
	return cells
}

// labelled pairs every "Label:" cell with the next non-empty cell. The
// results block puts two pairs on one row.
func labelled(cells []string) map[string]string {
	var pairs map[string]string
	for i, c := range cells {
		if !strings.HasSuffix(c, ":") {
			continue
		}
		for _, v := range cells[i+1:] {
			if v == "" {
				continue
			}
			if !strings.HasSuffix(v, ":") {
				if pairs == nil {
					pairs = make(map[string]string)
				}
				pairs[c] = v
			}
			break
		}
	}
	return pairs
}

func headerIndex(cells []string) map[string]int {
	idx := make(map[string]int, len(cells))
	for i, c := range cells {
		idx[strings.ToLower(c)] = i
	}
	return idx
}

// parseDeal returns ok=false on the first row that is not a deal, which
// ends the section (totals row or the next section title).
func parseDeal(cells []string, columns map[string]int, loc *time.Location) (types.Deal, bool, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(cells) {
			return ""
		}
		return cells[i]
	}

	at, err := time.ParseInLocation(timeLayout, get("time"), loc)
	if err != nil {
		return types.Deal{}, false, nil
	}

	ticket, err := strconv.ParseInt(get("deal"), 10, 64)
	if err != nil {
		return types.Deal{}, false, fmt.Errorf("invalid deal ticket %q: %w", get("deal"), err)
	}

	return types.Deal{
		Ticket: ticket,
		Time:   at,
		Kind:   types.ClassifyDeal(dealType(get("type")), dealEntry(get("direction"))),
		Profit: parseAmount(get("profit")),
		Symbol: get("symbol"),
	}, true, nil
}

func dealType(s string) int {
	switch strings.ToLower(s) {
	case "buy":
		return types.DealTypeBuy
	case "sell":
		return types.DealTypeSell
	case "balance":
		return types.DealTypeBalance
	}
	return -1
}

func dealEntry(s string) int {
	switch strings.ToLower(s) {
	case "in":
		return types.DealEntryIn
	case "out":
		return types.DealEntryOut
	case "in/out":
		return types.DealEntryInOut
	case "out by":
		return types.DealEntryOutBy
	}
	return -1
}

// parseAmount handles the report's space-grouped thousands.
func parseAmount(s string) float64 {
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func leadingInt(s string) int64 {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, _ := strconv.ParseInt(s[:end], 10, 64)
	return v
}
