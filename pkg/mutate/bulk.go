package mutate

import (
	"context"
	"fmt"
	"sync"

	"github.com/moby/patternmatcher"

	dasherr "github.com/klondike-tools/dash/errors"
	"github.com/klondike-tools/dash/pkg/models"
)

// BulkAction names the lifecycle transition a bulk run applies.
type BulkAction string

const (
	BulkStart  BulkAction = "start"
	BulkBlock  BulkAction = "block"
	BulkVerify BulkAction = "verify"
)

// BulkResult is the aggregate outcome of a bulk run.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    []error
}

// DefaultBulkConcurrency bounds parallel requests when config supplies
// nothing.
const DefaultBulkConcurrency = 4

// Bulk applies one action to every ID with bounded concurrency. Each ID
// goes through the full optimistic cycle independently, so one rejection
// rolls back only its own feature. A summary notice is emitted at the end
// instead of one notice per ID.
func (m *Mutator) Bulk(ctx context.Context, action BulkAction, ids []string, detail string, concurrency int) BulkResult {
	return m.BulkWithProgress(ctx, action, ids, detail, concurrency, nil)
}

// BulkWithProgress is Bulk with a per-ID completion callback, used by the
// CLI progress display. onResult may be nil and is called concurrently.
func (m *Mutator) BulkWithProgress(ctx context.Context, action BulkAction, ids []string, detail string, concurrency int, onResult func(id string, err error)) BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultBulkConcurrency
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
		mu  sync.Mutex
		res BulkResult
	)

	// Per-ID notices are suppressed during the run; the summary covers it.
	quiet := m.silent()

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			var err error
			switch action {
			case BulkStart:
				err = quiet.Start(ctx, id)
			case BulkBlock:
				err = quiet.Block(ctx, id, detail)
			case BulkVerify:
				err = quiet.Verify(ctx, id, detail)
			default:
				err = dasherr.New(dasherr.ErrCodeInvalidInput, fmt.Sprintf("unknown bulk action %q", action))
			}

			if onResult != nil {
				onResult(id, err)
			}

			mu.Lock()
			if err != nil {
				res.Failed++
				res.Errors = append(res.Errors, fmt.Errorf("%s: %w", id, err))
			} else {
				res.Succeeded++
			}
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	if res.Failed == 0 {
		m.notifier.Success(fmt.Sprintf("%s applied to %d features", action, res.Succeeded))
	} else {
		m.notifier.Error(fmt.Sprintf("%s: %d succeeded, %d failed", action, res.Succeeded, res.Failed))
	}
	return res
}

// MatchIDs selects feature IDs whose ID or category matches the pattern
// (docker-style globs, e.g. "F00*" or "core").
func MatchIDs(features []models.Feature, pattern string) ([]string, error) {
	pm, err := patternmatcher.New([]string{pattern})
	if err != nil {
		return nil, dasherr.Wrap(err, dasherr.ErrCodeInvalidInput, fmt.Sprintf("invalid pattern %q", pattern))
	}

	var ids []string
	for _, f := range features {
		byID, err := pm.MatchesOrParentMatches(f.ID)
		if err != nil {
			return nil, dasherr.Wrap(err, dasherr.ErrCodeInvalidInput, fmt.Sprintf("invalid pattern %q", pattern))
		}
		byCategory, _ := pm.MatchesOrParentMatches(string(f.Category))
		if byID || byCategory {
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Error(string)   {}
