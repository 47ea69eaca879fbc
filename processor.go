package main

import (
	"fmt"
	"log"
	"time"
)

// Collaborator boundaries, narrowed to what the processor needs so
// tests can substitute them.
type menuFetcher interface {
	Fetch(url string) (string, error)
}

type emailComposer interface {
	Compose(rc RunContext, menus []SourceResult, weatherLine string) (string, error)
}

type emailSender interface {
	Send(subject, htmlBody string) error
}

type weatherReporter interface {
	Line(city string) string
}

// LunchProcessor sequences one run: calendar resolution, per-source
// fetch-or-cache, email composition, delivery.
type LunchProcessor struct {
	config  *Config
	store   *Store
	fetcher menuFetcher
	agent   emailComposer
	mailer  emailSender
	weather weatherReporter
	now     func() time.Time
}

// NewLunchProcessor creates a processor with configured collaborators
// and opens the cache store for the whole run.
func NewLunchProcessor(cfg *Config) (*LunchProcessor, error) {
	store, err := OpenStore(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}

	return &LunchProcessor{
		config:  cfg,
		store:   store,
		fetcher: NewMenuFetcher(),
		agent:   NewLunchAgent(cfg.APIKey, cfg.Settings, cfg.FeedbackURL),
		mailer:  NewMailer(cfg),
		weather: NewWeatherService(cfg.Sender),
		now:     time.Now,
	}, nil
}

// Close releases the cache store and its run lock
func (p *LunchProcessor) Close() error {
	return p.store.Close()
}

// Run executes one batch run. A holiday skip returns nil without side
// effects; any unrecoverable error is returned so the process can exit
// non-zero for the scheduler. Individual source failures never abort
// the run.
func (p *LunchProcessor) Run() error {
	now := p.now()
	rc := resolveCalendar(now, p.config.AllDays, p.config.HolidaySet())
	if rc.Skip {
		log.Printf("Skipping run: %s is a holiday", now.Format("2006-01-02"))
		return nil
	}

	today := now.Format("2006-01-02")
	sources := p.config.Settings.Sources
	log.Printf("Resolving %d menus for %s vecka %d...", len(sources), rc.EffectiveDay, rc.EffectiveWeek)

	results := make([]SourceResult, 0, len(sources))
	for i, url := range sources {
		result := resolveSource(p.store, url, today, func() (string, error) {
			return p.fetcher.Fetch(url)
		})
		results = append(results, result)

		switch result.Origin {
		case OriginCached:
			log.Printf("[%d/%d] ✓ Cached: %s", i+1, len(sources), url)
		case OriginFetched:
			log.Printf("[%d/%d] ✓ Fetched: %s", i+1, len(sources), url)
		case OriginFailed:
			log.Printf("[%d/%d] ✗ Failed %s: %v", i+1, len(sources), url, result.Err)
		}
	}

	menus := make([]SourceResult, 0, len(results))
	for _, r := range results {
		if r.Origin != OriginFailed {
			menus = append(menus, r)
		}
	}
	if len(menus) == 0 {
		return fmt.Errorf("no menus resolved: all %d sources failed", len(results))
	}

	weatherLine := p.weather.Line(p.config.City)

	log.Printf("→ Composing email...")
	html, err := p.agent.Compose(rc, menus, weatherLine)
	if err != nil {
		return fmt.Errorf("composing lunch email: %w", err)
	}

	subject := fmt.Sprintf("Dagens Lunch - V.%d %s 🍽️", rc.EffectiveWeek, rc.EffectiveDay)
	if p.config.DryRun {
		log.Printf("✓ Dry run: composed %q, not sending", subject)
		fmt.Println(html)
		return nil
	}

	log.Printf("→ Sending %q to %d recipients...", subject, len(p.config.Recipients))
	if err := p.mailer.Send(subject, html); err != nil {
		return fmt.Errorf("sending lunch email: %w", err)
	}

	log.Printf("✓ Email sent")
	return nil
}

// resolveSource decides fetch versus reuse for one source. A same-day
// cache entry is returned without network access; otherwise the menu
// is fetched, truncated and cached. The store is only written on fetch
// success, and failures are contained in the returned result.
func resolveSource(store *Store, key, today string, fetch func() (string, error)) SourceResult {
	entry, ok, err := store.Get(key)
	if err != nil {
		return SourceResult{Key: key, Origin: OriginFailed, Err: err}
	}
	if ok && entry.AsOfDate == today {
		return SourceResult{Key: key, Text: entry.Text, Origin: OriginCached}
	}

	text, err := fetch()
	if err != nil {
		return SourceResult{Key: key, Origin: OriginFailed, Err: err}
	}
	text = truncateMenu(text)

	if err := store.Put(CacheEntry{Key: key, Text: text, AsOfDate: today}); err != nil {
		return SourceResult{Key: key, Origin: OriginFailed, Err: err}
	}
	return SourceResult{Key: key, Text: text, Origin: OriginFetched}
}
