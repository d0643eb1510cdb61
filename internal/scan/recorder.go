// Package scan ingests QR code scan events. Recording must never slow down
// the public redirect path, so events go through a buffered channel and are
// batch-inserted by a background worker.
package scan

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/repository"
)

const (
	batchSize     = 100
	flushInterval = 5 * time.Second
)

type Recorder struct {
	repo   *repository.ScanRepository
	events chan models.ScanEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewRecorder(repo *repository.ScanRepository, bufferSize int) *Recorder {
	r := &Recorder{
		repo:   repo,
		events: make(chan models.ScanEvent, bufferSize),
		done:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

// Record queues a scan event. Drops the event when the buffer is full
// rather than blocking the request.
func (r *Recorder) Record(event models.ScanEvent) {
	select {
	case r.events <- event:
	default:
		log.Println("scan event buffer full, dropping event")
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()

	batch := make([]models.ScanEvent, 0, batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-r.events:
			batch = append(batch, event)
			if len(batch) >= batchSize {
				r.flush(batch)
				batch = make([]models.ScanEvent, 0, batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = make([]models.ScanEvent, 0, batchSize)
			}
		case <-r.done:
			// Drain whatever is still queued before exiting
			for {
				select {
				case event := <-r.events:
					batch = append(batch, event)
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

func (r *Recorder) flush(batch []models.ScanEvent) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.repo.CreateBatch(ctx, batch); err != nil {
		log.Printf("failed to insert %d scan events: %v", len(batch), err)
	}
}

// Close flushes pending events and stops the worker.
func (r *Recorder) Close() {
	close(r.done)
	r.wg.Wait()
}
