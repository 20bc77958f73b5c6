package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewRecord    BookmarkType = "new_record"
	BookmarkBreakthrough BookmarkType = "breakthrough"
	BookmarkStagnation   BookmarkType = "stagnation"
	BookmarkCollapse     BookmarkType = "collapse"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable generations.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recordBest     float64 // best fitness ever seen
	hasRecord      bool
	sinceRecord    int     // generations since the last record
	recentMeanPeak float64 // peak mean fitness since the last collapse
}

// NewBookmarkDetector creates a detector with the given history size.
// The history size is also the stagnation threshold.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest generation and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkRecord(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStagnation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkRecord(stats GenerationStats) *Bookmark {
	if !bd.hasRecord {
		bd.hasRecord = true
		bd.recordBest = stats.BestFitness
		return nil
	}
	if stats.BestFitness <= bd.recordBest {
		bd.sinceRecord++
		return nil
	}

	old := bd.recordBest
	bd.recordBest = stats.BestFitness
	bd.sinceRecord = 0
	return &Bookmark{
		Type:        BookmarkNewRecord,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Best fitness %.1f beats previous record %.1f", stats.BestFitness, old),
	}
}

func (bd *BookmarkDetector) checkBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.MeanFitness
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.MeanFitness > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkBreakthrough,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Mean fitness %.2f is %.1fx rolling average (%.2f)", stats.MeanFitness, stats.MeanFitness/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStagnation(stats GenerationStats) *Bookmark {
	// trigger exactly once per plateau
	if bd.sinceRecord != bd.historySize {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStagnation,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("No new record for %d generations (best %.1f)", bd.sinceRecord, bd.recordBest),
	}
}

func (bd *BookmarkDetector) checkCollapse(stats GenerationStats) *Bookmark {
	if stats.MeanFitness > bd.recentMeanPeak {
		bd.recentMeanPeak = stats.MeanFitness
		return nil
	}
	if bd.recentMeanPeak <= 0 {
		return nil
	}

	drop := 1.0 - stats.MeanFitness/bd.recentMeanPeak
	if drop > 0.5 {
		oldPeak := bd.recentMeanPeak
		bd.recentMeanPeak = stats.MeanFitness
		return &Bookmark{
			Type:        BookmarkCollapse,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Mean fitness fell %.0f%% from peak %.2f to %.2f", drop*100, oldPeak, stats.MeanFitness),
		}
	}
	return nil
}
