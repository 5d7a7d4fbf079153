package display

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/mediabatch/convertron/internal/config"
)

// Update is one live status sample for a single file. Percent is -1 when
// no percentage can be computed (non-media conversions).
type Update struct {
	Name    string // display name of the input
	Index   int    // 1-based position in the batch
	Total   int
	Percent int
	Stage   string // short status text, e.g. "converting", "extracting"
}

// Reporter receives live conversion status and the one page-mode question
// a document-to-image batch may ask. It is the seam to the surrounding UI
// layer; TermReporter is the terminal implementation, other frontends can
// substitute their own. Implementations must tolerate concurrent Progress
// calls when the batch runs parallel workers.
type Reporter interface {
	Progress(u Update)
	// EndLine terminates any in-place status line before regular log
	// output resumes.
	EndLine()
	// PromptPageMode asks how multi-page documents should become images.
	// Implementations must return a concrete mode; when no answer can be
	// obtained the safe default is PageSingle.
	PromptPageMode() config.PageMode
}

// TermReporter prints status to stdout: a carriage-return status line on
// a TTY, plain lines (only on percent change) otherwise.
type TermReporter struct {
	mu       sync.Mutex
	tty      bool
	in       io.Reader
	out      io.Writer
	last     string
	lastPct  map[int]int
	lineOpen bool
}

// NewTermReporter returns a reporter bound to stdin/stdout.
func NewTermReporter() *TermReporter {
	return &TermReporter{
		tty:     term.IsTerminal(int(os.Stdout.Fd())),
		in:      os.Stdin,
		out:     os.Stdout,
		lastPct: make(map[int]int),
	}
}

// Progress prints one status sample. On a TTY the line is rewritten in
// place; otherwise a plain line is printed only when the percentage (or
// stage) changed, to keep captured logs readable.
func (r *TermReporter) Progress(u Update) {
	line := fmt.Sprintf("[%d/%d] %s: %s", u.Index, u.Total, u.Name, u.Stage)
	if u.Percent >= 0 {
		line += fmt.Sprintf(" %d%%", u.Percent)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tty {
		pad := ""
		if n := len(r.last) - len(line); n > 0 {
			pad = strings.Repeat(" ", n)
		}
		fmt.Fprint(r.out, "\r"+line+pad)
		r.last = line
		r.lineOpen = true
		return
	}

	if r.lastPct[u.Index] == u.Percent && u.Percent >= 0 {
		return
	}
	r.lastPct[u.Index] = u.Percent
	fmt.Fprintln(r.out, line)
}

// EndLine closes an open in-place status line with a newline.
func (r *TermReporter) EndLine() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tty && r.lineOpen {
		fmt.Fprintln(r.out)
		r.lineOpen = false
		r.last = ""
	}
}

// PromptPageMode asks the user once how to handle multi-page documents.
// Any read failure, EOF, or unrecognized answer falls back to the safe
// single-page mode so a missing frontend never stalls the batch.
func (r *TermReporter) PromptPageMode() config.PageMode {
	r.EndLine()
	fmt.Fprintln(r.out, "This batch converts documents to images. Handle multiple pages how?")
	fmt.Fprintln(r.out, "  1) single   - first page only (default)")
	fmt.Fprintln(r.out, "  2) separate - one image per page")
	fmt.Fprintln(r.out, "  3) animated - all pages in one animated image")
	fmt.Fprint(r.out, "Choice [1]: ")

	scanner := bufio.NewScanner(r.in)
	if !scanner.Scan() {
		return config.PageSingle
	}
	switch strings.TrimSpace(scanner.Text()) {
	case "2", "separate":
		return config.PageSeparate
	case "3", "animated":
		return config.PageAnimated
	default:
		return config.PageSingle
	}
}
