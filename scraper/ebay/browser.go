package ebay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"deal-scanner/models"
	"deal-scanner/utils"
)

const defaultSiteURL = "https://www.ebay.com"

var (
	itemIDRegexp   = regexp.MustCompile(`/itm/(?:[^/?#]+/)?(\d{6,})`)
	timeLeftRegexp = regexp.MustCompile(`(\d+)\s*([dhms])`)
)

// BrowserOptions configures a BrowserClient.
type BrowserOptions struct {
	SiteURL    string
	ChromeBin  string
	Timeout    time.Duration
	MaxRetries int
	Logger     *utils.Logger
}

// BrowserClient renders public search result pages in headless Chrome and
// converts the result cards into raw item records. It serves every search
// operation; item lookup by id is not supported.
type BrowserClient struct {
	opts  BrowserOptions
	retry *utils.RetryConfig
	now   func() time.Time
}

// NewBrowserClient returns a BrowserClient with defaults applied.
func NewBrowserClient(opts BrowserOptions) *BrowserClient {
	if opts.SiteURL == "" {
		opts.SiteURL = defaultSiteURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.Logger == nil {
		opts.Logger = utils.Discard()
	}
	return &BrowserClient{
		opts: opts,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      opts.Logger,
		},
		now: time.Now,
	}
}

// card is one search result as extracted by the in-page script.
type card struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	URL       string `json:"url"`
	Image     string `json:"image"`
	Location  string `json:"location"`
	Bids      string `json:"bids"`
	TimeLeft  string `json:"timeLeft"`
	Condition string `json:"condition"`
	Format    string `json:"format"`
}

const extractCardsJS = `
(function() {
	var results = [];
	var items = document.querySelectorAll('li.s-item, li.s-card');
	for (var i = 0; i < items.length; i++) {
		var it = items[i];
		var text = function(sel) {
			var el = it.querySelector(sel);
			return el ? el.innerText.trim() : '';
		};
		var link = it.querySelector('a.s-item__link, a.su-link');
		var img = it.querySelector('img');
		results.push({
			title:     text('.s-item__title, .s-card__title'),
			price:     text('.s-item__price, .s-card__price'),
			url:       link ? link.href : '',
			image:     img ? (img.getAttribute('src') || '') : '',
			location:  text('.s-item__location, .s-item__itemLocation'),
			bids:      text('.s-item__bids, .s-item__bidCount'),
			timeLeft:  text('.s-item__time-left, .s-item__time-end'),
			condition: text('.SECONDARY_INFO, .s-card__subtitle'),
			format:    text('.s-item__purchase-options, .s-item__formatBuyItNow')
		});
	}
	return results;
})()
`

// Execute renders the search page for req and returns its cards.
func (b *BrowserClient) Execute(ctx context.Context, req Request) (*RawResult, error) {
	if req.Operation == OpFindByID {
		return nil, fmt.Errorf("%w: browser backend cannot look up items by id: %w",
			models.ErrUpstreamUnavailable, errors.ErrUnsupported)
	}

	pageURL, err := searchURL(b.opts.SiteURL, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(b.opts.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var cards []card
	err = b.retry.Do(ctx, string(req.Operation), func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.opts.Timeout)
		defer cancelTimeout()

		cards = nil
		if err := chromedp.Run(tabCtx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(extractCardsJS, &cards),
		); err != nil {
			return fmt.Errorf("chromedp search page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	b.opts.Logger.Debug("[browser] %s found %d cards", pageURL, len(cards))
	items := cardsToItems(cards, b.now())
	if n := req.Pagination.EntriesPerPage; n > 0 && len(items) > n {
		items = items[:n]
	}
	return &RawResult{Items: items}, nil
}

// searchURL maps a search request onto the public search page parameters.
func searchURL(site string, req Request) (string, error) {
	u, err := url.Parse(strings.TrimRight(site, "/") + "/sch/i.html")
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("_nkw", req.Keywords)
	if n := req.Pagination.EntriesPerPage; n > 0 {
		q.Set("_ipg", strconv.Itoa(n))
	}
	if n := req.Pagination.PageNumber; n > 1 {
		q.Set("_pgn", strconv.Itoa(n))
	}

	switch req.SortOrder {
	case models.SortPricePlusShippingLowest:
		q.Set("_sop", "15")
	case models.SortEndTimeSoonest:
		q.Set("_sop", "1")
	}

	if req.Operation == OpFindCompleted {
		q.Set("LH_Complete", "1")
		q.Set("LH_Sold", "1")
	}
	if f, ok := req.filter(FilterSoldItemsOnly); ok && len(f.Values) > 0 && f.Values[0] == "true" {
		q.Set("LH_Sold", "1")
	}
	if f, ok := req.filter(FilterMaxPrice); ok && len(f.Values) > 0 {
		q.Set("_udhi", f.Values[0])
	}
	if f, ok := req.filter(FilterListingType); ok && len(f.Values) > 0 && f.Values[0] == string(models.ListingAuction) {
		q.Set("LH_Auction", "1")
	}
	if _, ok := req.filter(FilterEndTimeTo); ok && req.SortOrder == models.SortBestMatch {
		q.Set("_sop", "1")
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// cardsToItems converts scraped cards into raw records. End times are
// derived from the "time left" text relative to now; cards without one get
// no end time and are later dropped for live searches.
func cardsToItems(cards []card, now time.Time) []RawItem {
	items := make([]RawItem, 0, len(cards))
	for _, c := range cards {
		title := normaliseText(c.Title)
		if title == "" || strings.EqualFold(title, "Shop on eBay") {
			continue
		}

		item := RawItem{
			Title:       []string{title},
			ViewItemURL: []string{strings.TrimSpace(c.URL)},
		}
		if m := itemIDRegexp.FindStringSubmatch(c.URL); len(m) == 2 {
			item.ItemID = []string{m[1]}
		}
		if c.Image != "" {
			item.GalleryURL = []string{c.Image}
		}
		if loc := strings.TrimPrefix(normaliseText(c.Location), "from "); loc != "" {
			item.Location = []string{loc}
		}
		if c.Condition != "" {
			item.Condition = []rawCondition{{DisplayName: []string{normaliseText(c.Condition)}}}
		}

		status := rawSellingStatus{}
		if price, ok := parsePrice(c.Price); ok {
			status.CurrentPrice = []rawValue{{CurrencyID: "USD", Value: price.String()}}
		}
		if m := priceRegexp.FindString(c.Bids); m != "" {
			status.BidCount = []string{m}
		}
		item.SellingStatus = []rawSellingStatus{status}

		info := rawListingInfo{ListingType: []string{string(models.ListingFixedPrice)}}
		if c.Bids != "" {
			info.ListingType = []string{string(models.ListingAuction)}
		}
		if d, ok := parseTimeLeft(c.TimeLeft); ok {
			info.EndTime = []string{now.Add(d).UTC().Format(time.RFC3339)}
		}
		item.ListingInfo = []rawListingInfo{info}

		items = append(items, item)
	}
	return items
}

// parseTimeLeft reads texts like "2d 4h left" or "12m 30s left".
func parseTimeLeft(s string) (time.Duration, bool) {
	matches := timeLeftRegexp.FindAllStringSubmatch(strings.ToLower(s), -1)
	if len(matches) == 0 {
		return 0, false
	}
	var d time.Duration
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		switch m[2] {
		case "d":
			d += time.Duration(n) * 24 * time.Hour
		case "h":
			d += time.Duration(n) * time.Hour
		case "m":
			d += time.Duration(n) * time.Minute
		case "s":
			d += time.Duration(n) * time.Second
		}
	}
	return d, true
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
