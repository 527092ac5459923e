package main

import (
	"cloudsync/internal/job"
	"fmt"
	"io"
	"sync"
)

// progressPrinter prints job progress to w until stopped
type progressPrinter struct {
	sink *job.ChannelSink
	wg   sync.WaitGroup
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	p := &progressPrinter{sink: job.NewChannelSink(16)}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for update := range p.sink.C {
			if update.Percent != nil {
				fmt.Fprintf(w, "[%5.1f%%] %s\n", *update.Percent, update.Message)
			} else {
				fmt.Fprintln(w, update.Message)
			}
		}
	}()
	return p
}

func (p *progressPrinter) Sink() job.Sink { return p.sink }

// Stop waits for buffered updates to be printed. The sink must not be used afterwards.
func (p *progressPrinter) Stop() {
	close(p.sink.C)
	p.wg.Wait()
}
