package pipeline

import (
	"io"
	"os"

	"github.com/mediabatch/convertron/internal/naming"
)

// outputOK reports whether a finalized output exists and is non-empty.
// A zero-byte file from a cleanly exiting subprocess still counts as a
// failed conversion.
func outputOK(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}

// removeOutputs deletes a failed conversion's partial output: the single
// file, or every materialized page of a multi-output pattern.
func removeOutputs(path string, multi bool) {
	if !multi {
		os.Remove(path)
		return
	}
	for page := 1; ; page++ {
		p := naming.MaterializePage(path, page)
		if err := os.Remove(p); err != nil {
			return
		}
	}
}

// moveFile renames src to dst, falling back to copy-and-delete when the
// two live on different filesystems (scratch is typically on tmpfs).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}
