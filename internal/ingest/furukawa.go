package ingest

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

// CatalogItem is one normalized entry scraped from a manufacturer catalogue
// page: a display name plus a SKU derived from it.
type CatalogItem struct {
	Name string
	SKU  string
}

// DefaultCatalogURLs - the Furukawa public catalogue pages the ingest walks.
var DefaultCatalogURLs = []string{
	"https://www.furukawa.co.jp/en/product/catalogue/",
	"https://www.furukawa.co.jp/en/product/catalogue/#anchor_1_1",
	"https://www.furukawa.co.jp/en/product/catalogue/#anchor_1_2",
	"https://www.furukawa.co.jp/en/product/catalogue/#anchor_1_4",
}

var (
	pdfLinkRe   = regexp.MustCompile(`(?is)<a[^>]+href="[^"]*\.pdf"[^>]*>(.*?)</a>`)
	htmlTagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
	pdfSuffixRe = regexp.MustCompile(`(?i)\s*\(PDF[^)]*\)\s*$`)
	skuTokenRe  = regexp.MustCompile(`[A-Z0-9-]{3,}`)
	digitRe     = regexp.MustCompile(`\d`)
	nonSkuRe    = regexp.MustCompile(`[^A-Z0-9-]`)
	dashRunRe   = regexp.MustCompile(`-+`)
)

// FetchCatalogItems downloads each page and extracts every PDF link title.
// A page that fails to download is skipped; the error list tells the caller
// which ones.
func FetchCatalogItems(urls []string) ([]CatalogItem, []error) {
	client := &http.Client{Timeout: 30 * time.Second}

	var items []CatalogItem
	var errs []error
	for _, url := range urls {
		page, err := fetchPage(client, url)
		if err != nil {
			errs = append(errs, fmt.Errorf("fetch %s: %w", url, err))
			continue
		}
		items = append(items, ExtractItems(page)...)
	}
	return Dedupe(items), errs
}

func fetchPage(client *http.Client, url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; erp-backend-ingest/1.0)")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ExtractItems pulls catalog entries out of one page's HTML: every link to
// a .pdf becomes an item named after the link text.
func ExtractItems(page string) []CatalogItem {
	var items []CatalogItem
	for _, match := range pdfLinkRe.FindAllStringSubmatch(page, -1) {
		text := html.UnescapeString(htmlTagRe.ReplaceAllString(match[1], " "))
		name := StripPDFSuffix(strings.Join(strings.Fields(text), " "))
		if name == "" {
			continue
		}
		items = append(items, CatalogItem{Name: name, SKU: MakeSKU(name)})
	}
	return items
}

// StripPDFSuffix removes a trailing "(PDF: 1.2MB)" style marker.
func StripPDFSuffix(name string) string {
	return strings.TrimSpace(pdfSuffixRe.ReplaceAllString(name, ""))
}

// MakeSKU derives a stable SKU from a catalog name. Tokens that look like
// model codes (letters plus digits) win; the longest candidate is cleaned
// to [A-Z0-9-] and capped at 40 chars.
func MakeSKU(name string) string {
	base := strings.ToUpper(name)

	tokens := skuTokenRe.FindAllString(base, -1)
	withDigits := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if digitRe.MatchString(tok) {
			withDigits = append(withDigits, tok)
		}
	}

	candidate := longest(withDigits)
	if candidate == "" {
		candidate = longest(tokens)
	}
	if candidate == "" {
		candidate = base
	}

	cleaned := nonSkuRe.ReplaceAllString(candidate, "-")
	cleaned = dashRunRe.ReplaceAllString(cleaned, "-")
	cleaned = strings.Trim(cleaned, "-")
	if len(cleaned) > 40 {
		cleaned = cleaned[:40]
	}
	if cleaned == "" {
		return "FURUKAWA-ITEM"
	}
	return cleaned
}

func longest(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	sorted := append([]string(nil), tokens...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return sorted[0]
}

// Dedupe keeps the first item per SKU, preserving order.
func Dedupe(items []CatalogItem) []CatalogItem {
	seen := make(map[string]struct{}, len(items))
	unique := make([]CatalogItem, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.SKU]; ok {
			continue
		}
		seen[it.SKU] = struct{}{}
		unique = append(unique, it)
	}
	return unique
}
