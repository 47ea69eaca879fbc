package main

// Origin describes how a source's menu text was obtained during a run.
type Origin string

const (
	OriginCached  Origin = "cached"
	OriginFetched Origin = "fetched"
	OriginFailed  Origin = "failed"
)

// SourceResult tracks the outcome of resolving one restaurant source
type SourceResult struct {
	Key    string
	Text   string
	Origin Origin
	Err    error
}

// RunContext holds the calendar decision for one run: which weekday's
// menu to show, which ISO week it belongs to, and whether the run
// should be skipped entirely.
type RunContext struct {
	EffectiveDay  string
	EffectiveWeek int
	Skip          bool
}

// CacheEntry is one cached menu text, valid only for the date it was
// fetched on.
type CacheEntry struct {
	Key      string
	Text     string
	AsOfDate string // ISO date, e.g. 2026-08-29
}
