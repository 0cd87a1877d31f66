package presenter

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleseneker/rating-prompt/internal/logging"
	"github.com/kyleseneker/rating-prompt/internal/prompt"
)

// syncBuffer guards a bytes.Buffer written from the reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testDialog(cancelable bool) prompt.Dialog {
	return prompt.Dialog{
		Title:      "Enjoying it?",
		Message:    "Please rate us.",
		Cancelable: cancelable,
		Buttons: []prompt.Button{
			{Response: prompt.ResponseRateNow, Label: "Rate now"},
			{Response: prompt.ResponseNeverRemind, Label: "Never"},
		},
	}
}

// render runs one dialog and returns the response handed to respond, if any.
func render(t *testing.T, input string, d prompt.Dialog) (prompt.Response, bool, string) {
	t.Helper()
	loop := make(chan func(), 1)
	out := &syncBuffer{}
	p := NewTTY(strings.NewReader(input), out, func(fn func()) { loop <- fn }, logging.Discard())

	var got prompt.Response
	answered := false
	require.NoError(t, p.Render(d, func(r prompt.Response) error {
		got = r
		answered = true
		return nil
	}))

	select {
	case fn := <-loop:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("presenter never dispatched")
	}
	return got, answered, out.String()
}

func TestTTY_Render(t *testing.T) {
	t.Run("Prints Dialog And Picks Button", func(t *testing.T) {
		got, answered, out := render(t, "2\n", testDialog(true))
		require.True(t, answered)
		assert.Equal(t, prompt.ResponseNeverRemind, got)
		assert.Contains(t, out, "Enjoying it?")
		assert.Contains(t, out, "Please rate us.")
		assert.Contains(t, out, "[1] Rate now")
		assert.Contains(t, out, "[2] Never")
	})

	t.Run("Retries Invalid Choice", func(t *testing.T) {
		got, answered, out := render(t, "7\nabc\n1\n", testDialog(true))
		require.True(t, answered)
		assert.Equal(t, prompt.ResponseRateNow, got)
		assert.Equal(t, 2, strings.Count(out, "Invalid choice."))
	})

	t.Run("Empty Line Cancels", func(t *testing.T) {
		got, answered, _ := render(t, "\n", testDialog(true))
		require.True(t, answered)
		assert.Equal(t, prompt.ResponseCancelled, got)
	})

	t.Run("Not Cancelable Ignores Empty Line", func(t *testing.T) {
		got, answered, _ := render(t, "\n\n1\n", testDialog(false))
		require.True(t, answered)
		assert.Equal(t, prompt.ResponseRateNow, got)
	})

	t.Run("End Of Input On Non Cancelable Dialog", func(t *testing.T) {
		got, answered, _ := render(t, "", testDialog(false))
		require.True(t, answered)
		assert.Equal(t, prompt.ResponseAbandoned, got)
	})

	t.Run("Invalid Answer Then End Of Input", func(t *testing.T) {
		got, _, _ := render(t, "9", testDialog(false))
		assert.Equal(t, prompt.ResponseAbandoned, got)

		got, _, _ = render(t, "9", testDialog(true))
		assert.Equal(t, prompt.ResponseCancelled, got)
	})

	t.Run("No Title", func(t *testing.T) {
		d := testDialog(true)
		d.Title = ""
		_, _, out := render(t, "1\n", d)
		assert.NotContains(t, out, "=")
	})
}

func TestTTY_RenderErrors(t *testing.T) {
	p := NewTTY(nil, nil, func(fn func()) { fn() }, logging.Discard())
	err := p.Render(testDialog(true), func(prompt.Response) error { return nil })
	assert.ErrorIs(t, err, ErrNoTerminal)

	p = NewTTY(strings.NewReader(""), &bytes.Buffer{}, func(fn func()) { fn() }, logging.Discard())
	err = p.Render(prompt.Dialog{Message: "m"}, func(prompt.Response) error { return nil })
	assert.Error(t, err)
}
