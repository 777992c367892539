package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	appErrors "github.com/edurate/edurate-api/pkg/errors"
)

// Config controls one scraper instance.
type Config struct {
	SourceURL string
	UserAgent string
	Timeout   time.Duration

	FollowPages bool
	MaxPages    int
	// ResultsPathHint restricts pagination links to paths containing this
	// fragment. Empty means "same path as the source URL".
	ResultsPathHint string
}

// Result is the outcome of a whole scrape run.
type Result struct {
	Names        []string `json:"names"`
	PagesVisited int      `json:"pages_visited"`
	SourceURL    string   `json:"source_url"`
}

// Scraper fetches a directory listing and extracts deduplicated candidate
// names, optionally following same-site pagination up to a hard page cap.
type Scraper struct {
	client    *resty.Client
	extractor Extractor
	cfg       Config
	logger    *zap.Logger
}

const defaultMaxPages = 10

// New builds a scraper around the configured extraction strategy.
func New(cfg Config, extractor Extractor, logger *zap.Logger) *Scraper {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &Scraper{client: client, extractor: extractor, cfg: cfg, logger: logger}
}

// Run performs the traversal. A fetch failure on the first page is fatal;
// failures on later pagination pages abandon that branch and keep whatever
// was collected.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	base, err := url.Parse(s.cfg.SourceURL)
	if err != nil || !strings.HasPrefix(base.Scheme, "http") {
		return nil, appErrors.Clone(appErrors.ErrMisconfigured, "scrape source url is not set or invalid")
	}

	pathHint := s.cfg.ResultsPathHint
	if pathHint == "" {
		pathHint = base.Path
	}

	visited := make(map[string]struct{})
	seen := make(map[string]struct{})
	queue := []string{base.String()}

	pages := 0
	for len(queue) > 0 && pages < s.cfg.MaxPages {
		pageURL := queue[0]
		queue = queue[1:]
		if _, ok := visited[pageURL]; ok {
			continue
		}
		visited[pageURL] = struct{}{}

		doc, err := s.fetch(ctx, pageURL)
		if err != nil {
			if pages == 0 {
				return nil, err
			}
			s.logger.Warn("pagination fetch failed, dropping branch",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}
		pages++

		for _, candidate := range s.extractor.Extract(doc) {
			seen[Normalize(candidate)] = struct{}{}
		}

		if s.cfg.FollowPages {
			queue = append(queue, s.paginationLinks(doc, pageURL, base, pathHint, visited)...)
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Result{Names: names, PagesVisited: pages, SourceURL: base.String()}, nil
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	res, err := s.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamFetch.Code, appErrors.ErrUpstreamFetch.Status,
			fmt.Sprintf("fetch %s", pageURL))
	}
	if !res.IsSuccess() {
		return nil, appErrors.Clone(appErrors.ErrUpstreamFetch,
			fmt.Sprintf("fetch %s: status %d", pageURL, res.StatusCode()))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstreamFetch.Code, appErrors.ErrUpstreamFetch.Status,
			fmt.Sprintf("parse %s", pageURL))
	}
	return doc, nil
}

// paginationLinks collects same-site links that point back at the directory
// results path, normalized to absolute URLs and filtered against the visited
// set so adversarial pagination cannot loop the traversal.
func (s *Scraper) paginationLinks(doc *goquery.Document, pageURL string, base *url.URL, pathHint string, visited map[string]struct{}) []string {
	current, err := url.Parse(pageURL)
	if err != nil {
		current = base
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := current.ResolveReference(ref)
		abs.Fragment = ""
		if abs.Host != base.Host {
			return
		}
		if pathHint != "" && !strings.Contains(abs.Path, pathHint) {
			return
		}
		if _, ok := visited[abs.String()]; ok {
			return
		}
		links = append(links, abs.String())
	})
	return links
}
