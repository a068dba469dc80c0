package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func plain(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetNoColor(false)
		SetQuiet(false)
	})
	return &buf
}

func TestPrintFunctions(t *testing.T) {
	buf := plain(t)

	PrintInfo("Cache", "success_cache.json")
	PrintSuccess("done")
	PrintWarning("careful", "x")
	PrintError("broken", errors.New("boom"))

	assert.Equal(t, "Cache: success_cache.json\ndone\ncareful: x\nbroken: boom\n", buf.String())
}

func TestQuietKeepsErrors(t *testing.T) {
	buf := plain(t)
	SetQuiet(true)

	PrintInfo("a", "b")
	PrintSuccess("ok")
	PrintError("bad")

	assert.Equal(t, "bad\n", buf.String())
}

func TestColorize(t *testing.T) {
	plain(t)
	assert.Equal(t, "x", Green("x"))

	SetNoColor(false)
	assert.Equal(t, "\033[32mx\033[0m", Green("x"))
}

func TestProgressDisplay(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	p := NewProgressDisplayWithWriter(&buf, "fetch", 4, false)
	p.Step("305")
	p.Skip("306")
	p.Fail("307", errors.New("gave up"))
	p.Retry("308", 1, 2*time.Second)
	p.Step("308")

	done, skipped, failed := p.Counts()
	assert.Equal(t, 4, done)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)

	out := buf.String()
	assert.Contains(t, out, "fetch [")
	assert.Contains(t, out, "4/4")
	assert.Contains(t, out, "1 errors")
	assert.Contains(t, out, "308 attempt 1 failed, waiting 2s")

	buf.Reset()
	p.Complete("items")
	assert.Contains(t, buf.String(), "fetch: 3 items in")
	assert.Contains(t, buf.String(), "(1 cached)")
	assert.Contains(t, buf.String(), "1 failed")
}

func TestProgressDisplayDebug(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	p := NewProgressDisplayWithWriter(&buf, "download", 2, true)
	p.Step("1 playside")
	p.Fail("1 backside", errors.New("404"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"✓ 1 playside", "✗ Failed: 1 backside - 404"}, lines)
}

func TestProgressDisplayQuiet(t *testing.T) {
	plain(t)
	SetQuiet(true)
	var buf bytes.Buffer

	p := NewProgressDisplayWithWriter(&buf, "rank", 1, false)
	p.Step("1")
	p.Complete("images")
	assert.Empty(t, buf.String())
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}

type recordingSender struct {
	titles, messages []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func TestNotifier(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifierWithSender(sender)
	assert.True(t, n.Enabled())

	assert.NoError(t, n.SendSuccess("gammascope", "fetch finished"))
	assert.NoError(t, n.SendError("gammascope", "rank"))
	assert.Equal(t, []string{"fetch finished", "Failed: rank"}, sender.messages)

	off := NewNotifierWithSender(nil)
	assert.False(t, off.Enabled())
	assert.NoError(t, off.SendSuccess("a", "b"))
}
