package cli

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter reports per-feature progress during bulk actions.
type ProgressReporter struct {
	mu       sync.Mutex
	statuses map[string]string
	order    []string
	start    time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		statuses: make(map[string]string),
		start:    time.Now(),
	}
}

// Update records the status of one feature ("pending", "done", "failed").
func (p *ProgressReporter) Update(featureID, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, seen := p.statuses[featureID]; !seen {
		p.order = append(p.order, featureID)
	}
	p.statuses[featureID] = status
	p.render()
}

// render displays the current progress
func (p *ProgressReporter) render() {
	fmt.Print("\033[H\033[2J")

	elapsed := time.Since(p.start).Round(time.Second)
	fmt.Printf("Applying bulk action... [%s]\n\n", elapsed)

	for _, id := range p.order {
		status := p.statuses[id]
		symbol := "[.]"
		switch status {
		case "done":
			symbol = "[*]"
		case "failed":
			symbol = "[x]"
		case "running":
			symbol = "[~]"
		}
		fmt.Printf("%s %s: %s\n", symbol, id, status)
	}
}

// Done marks the operation as complete
func (p *ProgressReporter) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.start).Round(time.Millisecond)
	fmt.Printf("\nOperation completed in %s\n", elapsed)
}
