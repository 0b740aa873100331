package classifier

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/siherrmann/corefer/model"
)

// EventWriter writes training events as "<label> <feature> <feature> ..." lines,
// one stream per model name. Feature strings must not contain spaces.
type EventWriter struct {
	mu      sync.Mutex
	writers map[string]io.Writer
	open    func(modelName string) (io.Writer, error)
	counts  map[string]int
}

// NewEventWriter creates a writer that obtains one io.Writer per model from open
func NewEventWriter(open func(modelName string) (io.Writer, error)) *EventWriter {
	return &EventWriter{
		writers: make(map[string]io.Writer),
		open:    open,
		counts:  make(map[string]int),
	}
}

// Emit writes one event
func (w *EventWriter) Emit(event model.TrainingEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	out, ok := w.writers[event.Model]
	if !ok {
		var err error
		out, err = w.open(event.Model)
		if err != nil {
			return fmt.Errorf("open event stream for %s: %w", event.Model, err)
		}
		w.writers[event.Model] = out
	}

	if _, err := fmt.Fprintln(out, FormatEvent(event)); err != nil {
		return err
	}
	w.counts[event.Model]++
	return nil
}

// Count returns the number of events written for a model
func (w *EventWriter) Count(modelName string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[modelName]
}

// FormatEvent renders an event as a single line
func FormatEvent(event model.TrainingEvent) string {
	var b strings.Builder
	b.WriteString(event.Label)
	for _, f := range event.Features {
		b.WriteByte(' ')
		b.WriteString(strings.ReplaceAll(f, " ", "_"))
	}
	return b.String()
}

// ReadEvents parses lines written by EventWriter for the given model
func ReadEvents(r io.Reader, modelName string) ([]model.TrainingEvent, error) {
	var events []model.TrainingEvent
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		features := model.Features(fields[1:])
		slices.Sort(features)
		events = append(events, model.TrainingEvent{
			Model:    modelName,
			Label:    fields[0],
			Features: slices.Compact(features),
		})
	}
	return events, scanner.Err()
}
