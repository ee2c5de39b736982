package main

import (
	"io"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progress draws one bar per worker on stderr.
type progress struct {
	pbs  *mpb.Progress
	mu   sync.Mutex
	bars []*mpb.Bar
}

func newProgress(w io.Writer) *progress {
	return &progress{pbs: mpb.New(mpb.WithWidth(40), mpb.WithOutput(w))}
}

// bar adds a bar for total trials and returns a callback for
// simulation.WithProgress. The callback is shared by every cluster count the
// worker runs, so it counts single steps rather than trusting done.
func (p *progress) bar(name string, total int) func(done, total int) {
	bar := p.pbs.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.Name("", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
			decor.EwmaETA(decor.ET_STYLE_GO, 64),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)
	p.mu.Lock()
	p.bars = append(p.bars, bar)
	p.mu.Unlock()

	var last time.Time
	var mu sync.Mutex
	return func(int, int) {
		mu.Lock()
		defer mu.Unlock()
		now := time.Now()
		if last.IsZero() {
			bar.Increment()
		} else {
			bar.EwmaIncrement(now.Sub(last))
		}
		last = now
	}
}

// wait aborts unfinished bars, which happens when a worker fails, and
// waits for rendering to stop.
func (p *progress) wait() {
	p.mu.Lock()
	for _, bar := range p.bars {
		if !bar.Completed() {
			bar.Abort(false)
		}
	}
	p.mu.Unlock()
	p.pbs.Wait()
}
