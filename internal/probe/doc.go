// Package probe provides ffprobe-based media inspection and typed result
// structures. A single JSON call per file yields the stream layout used
// for classification and the duration used for progress estimation.
package probe
