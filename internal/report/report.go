package report

import (
	"fmt"
	"strings"

	"github.com/billyoftea/shefradar/internal/fetcher"
	"github.com/billyoftea/shefradar/internal/model"
)

// maxEntries bounds each section so the report stays readable.
const maxEntries = 5

var sectionTitles = map[fetcher.Source]string{
	fetcher.SourceEquityIndex:   "Equity Indices",
	fetcher.SourcePreciousMetal: "Precious Metals",
	fetcher.SourceCrypto:        "Crypto",
	fetcher.SourceFutures:       "Futures",
	fetcher.SourceCodeTrend:     "GitHub Trending",
	fetcher.SourceSocialPost:    "Social Posts",
	fetcher.SourceSocialArticle: "Articles",
}

// Render produces the daily text report. It is pure and deterministic:
// sections follow source declaration order, never the order the
// concurrent fetches completed in. Disabled sources are omitted;
// failed sources are omitted from the data sections and listed in the
// trailing warnings block.
func Render(snap *fetcher.Snapshot) string {
	var b strings.Builder
	rule := strings.Repeat("=", 50)

	b.WriteString(rule + "\n")
	b.WriteString("Daily Market Radar\n")
	b.WriteString(snap.Timestamp.Format("2006-01-02 15:04") + "\n")
	b.WriteString(rule + "\n")

	for _, src := range fetcher.Sources {
		out, ok := snap.Outcomes[src]
		if !ok || out.Status != fetcher.StatusSuccess {
			continue
		}
		renderSection(&b, src, out.Records)
	}

	if len(snap.Errors) > 0 {
		b.WriteString("\n[Warnings]\n")
		b.WriteString(strings.Repeat("-", 40) + "\n")
		for _, entry := range snap.Errors {
			fmt.Fprintf(&b, "  - %s: %s\n", entry.Source, entry.Message)
		}
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}

func renderSection(b *strings.Builder, src fetcher.Source, records model.RecordSet) {
	title, ok := sectionTitles[src]
	if !ok {
		title = string(src)
	}

	fmt.Fprintf(b, "\n[%s]\n", title)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	if records.Len() == 0 {
		b.WriteString("  (no data)\n")
		return
	}

	for _, r := range records.Head(maxEntries) {
		renderRecord(b, r)
	}
}

func renderRecord(b *strings.Builder, r model.Record) {
	switch rec := r.(type) {
	case model.Quote:
		fmt.Fprintf(b, "  %s %s: %.2f (%+.2f%%)\n", rec.Symbol, rec.Name, rec.Price, rec.ChangePct)
	case model.TrendingRepo:
		fmt.Fprintf(b, "  %s (%d stars)\n", rec.FullName, rec.Stars)
		if rec.Description != "" {
			fmt.Fprintf(b, "     %s\n", truncate(rec.Description, 60))
		}
	case model.Post:
		fmt.Fprintf(b, "  @%s: %s\n", rec.Handle, truncate(oneLine(rec.Text), 80))
	case model.Article:
		fmt.Fprintf(b, "  [%s] %s\n", rec.Account, truncate(rec.Title, 48))
	default:
		fmt.Fprintf(b, "  %s\n", r.NaturalKey())
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
