// Package naming derives non-colliding output paths for conversions.
package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// PagePlaceholder is the zero-padded page token embedded in multi-output
// patterns. The transcoder substitutes the page number when writing
// paginated output; MaterializePage does the same for existence checks.
const PagePlaceholder = "%03d"

const convertedSuffix = "_converted"

// Allocator hands out output paths that are free on disk and unclaimed by
// any earlier request in the same run. Allocation is serialized with a
// mutex so parallel workers cannot race each other to the same name; all
// methods are goroutine-safe.
type Allocator struct {
	mu     sync.Mutex
	owners map[string]string // candidate path → input path that claimed it
}

// NewAllocator creates a ready-to-use allocator.
func NewAllocator() *Allocator {
	return &Allocator{owners: make(map[string]string)}
}

// Allocate returns the output path for converting input to format,
// writing into the input's directory. See AllocateIn.
func (a *Allocator) Allocate(input, format string, multi bool) string {
	return a.AllocateIn(filepath.Dir(input), input, format, multi)
}

// AllocateIn returns an output path in dir for converting input to
// format. The base name is the input's stem plus "_converted.<format>";
// when that name is taken a "_<n>" counter is appended, n increasing from
// 1 until a free name is found. With multi set, the name embeds
// PagePlaceholder and the existence check tests the materialized
// first-page name.
//
// A candidate is free when it does not exist on disk and was not claimed
// by a different input earlier in this run. Re-allocating for the same
// input without creating the file returns the same path.
func (a *Allocator) AllocateIn(dir, input, format string, multi bool) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for n := 0; ; n++ {
		counter := ""
		if n > 0 {
			counter = fmt.Sprintf("_%d", n)
		}
		var candidate string
		if multi {
			candidate = filepath.Join(dir, stem+convertedSuffix+counter+"_"+PagePlaceholder+"."+format)
		} else {
			candidate = filepath.Join(dir, stem+convertedSuffix+counter+"."+format)
		}

		check := candidate
		if multi {
			check = MaterializePage(candidate, 1)
		}
		// Only a confirmed not-exist makes a name free; a stat error on
		// an existing entry must not hand out its name.
		if _, err := os.Stat(check); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		owner, claimed := a.owners[check]
		if claimed && owner != input {
			continue
		}

		a.owners[check] = input
		return candidate
	}
}

// MaterializePage substitutes page into a pattern returned by a multi
// allocation. Plain string replacement, so stems containing printf verbs
// cannot corrupt the result.
func MaterializePage(pattern string, page int) string {
	return strings.Replace(pattern, PagePlaceholder, fmt.Sprintf("%03d", page), 1)
}

// IsPattern reports whether path embeds the page placeholder.
func IsPattern(path string) bool {
	return strings.Contains(path, PagePlaceholder)
}
