package client

import (
	"context"
	"errors"
	"sync"

	"github.com/pivolan/equipment_analyzer/domain/models"
	"github.com/pivolan/equipment_analyzer/engine"
)

// ErrSuperseded is returned by a Load that finished after a newer Load started.
var ErrSuperseded = errors.New("load superseded by a newer request")

// State is one loaded dataset with its derived view.
type State struct {
	ID      string
	Dataset *models.UploadedDataset
	Records []models.Record
	View    *engine.View
}

// Loader keeps the most recently requested dataset. Only the newest Load may
// replace the current state.
type Loader struct {
	client *Client

	mu      sync.Mutex
	gen     uint64
	current *State
}

func NewLoader(c *Client) *Loader {
	return &Loader{client: c}
}

// Load fetches data and summary concurrently and builds the view once both arrive.
// On error the previous state is kept.
func (l *Loader) Load(ctx context.Context, id string) (*State, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	var (
		wg              sync.WaitGroup
		records         []models.Record
		dataset         *models.UploadedDataset
		dataErr, sumErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, dataErr = l.client.Data(ctx, id)
	}()
	go func() {
		defer wg.Done()
		dataset, sumErr = l.client.Summary(ctx, id)
	}()
	wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return nil, ErrSuperseded
	}
	if err := errors.Join(dataErr, sumErr); err != nil {
		return nil, err
	}

	l.current = &State{
		ID:      id,
		Dataset: dataset,
		Records: records,
		View:    engine.NewView(records, dataset.SummaryData),
	}
	return l.current, nil
}

// Current returns the last successfully loaded state or nil.
func (l *Loader) Current() *State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
