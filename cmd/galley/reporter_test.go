package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkproof/galley/internal/models"
	"github.com/inkproof/galley/internal/orchestration"
)

func TestVerboseProgressListenerConcurrentEvents(t *testing.T) {
	var buf bytes.Buffer
	listener := verboseProgressListener(&buf)

	// Scoring workers deliver events concurrently; every event must land
	// as a whole line.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listener(orchestration.ProgressEvent{
				EventType: orchestration.EventScoreComplete,
				Subject:   "Plot Evaluation",
				Num:       i + 1,
				Total:     8,
				Score:     80,
				Source:    models.SourceMock,
			})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 8)
	for _, line := range lines {
		assert.Contains(t, line, "Plot Evaluation: 80.0")
	}
}

func TestSyncWriterConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	w := &syncWriter{w: &buf}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Write([]byte("manuscript line\n"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 16)
	for _, line := range lines {
		assert.Equal(t, "manuscript line", line)
	}
}
