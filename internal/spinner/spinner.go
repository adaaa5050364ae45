package spinner

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Start displays an animated spinner with the given message on w.
// Call the returned update function to swap the message mid-run, and the
// returned stop function to halt the spinner and clear the line.
func Start(w io.Writer, message string) (update func(string), stop func()) {
	done := make(chan struct{})
	cleared := make(chan struct{})
	var stopOnce sync.Once

	var mu sync.Mutex
	current := message
	longest := len([]rune(message))

	setMessage := func(m string) {
		mu.Lock()
		current = m
		if n := len([]rune(m)); n > longest {
			longest = n
		}
		mu.Unlock()
	}

	go func() {
		i := 0
		for {
			select {
			case <-done:
				mu.Lock()
				width := longest
				mu.Unlock()
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width+2)) //nolint:errcheck
				close(cleared)
				return
			case <-time.After(80 * time.Millisecond):
				mu.Lock()
				m := current
				pad := longest - len([]rune(m))
				mu.Unlock()
				if pad < 0 {
					pad = 0
				}
				fmt.Fprintf(w, "\r%s %s%s", frames[i%len(frames)], m, strings.Repeat(" ", pad)) //nolint:errcheck
				i++
			}
		}
	}()
	return setMessage, func() {
		stopOnce.Do(func() {
			close(done)
		})
		<-cleared
	}
}
