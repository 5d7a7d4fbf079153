package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename   string
	FormatName string
	Duration   float64
	Size       int64
	BitRate    int64
}

// VideoStream holds the parsed properties of a single video stream.
// IsAttachedPic marks embedded cover art, which must not make an audio
// file look like a video.
type VideoStream struct {
	Index         int
	Codec         string
	Width         int
	Height        int
	IsAttachedPic bool
}

// AudioStream holds the parsed properties of a single audio stream.
type AudioStream struct {
	Index    int
	Codec    string
	Duration float64
}

// Result is the fully parsed output of a single ffprobe JSON call.
type Result struct {
	Format       FormatInfo
	VideoStreams []VideoStream
	AudioStreams []AudioStream
}

// Duration returns the container duration in seconds, falling back to the
// longest audio stream duration when the format section has none.
func (r *Result) Duration() float64 {
	if r.Format.Duration > 0 {
		return r.Format.Duration
	}
	var max float64
	for _, a := range r.AudioStreams {
		if a.Duration > max {
			max = a.Duration
		}
	}
	return max
}

// HasAudio reports whether any audio stream is present.
func (r *Result) HasAudio() bool { return len(r.AudioStreams) > 0 }

// RealVideoStreams returns the video streams that are not attached
// pictures (cover art).
func (r *Result) RealVideoStreams() []VideoStream {
	var out []VideoStream
	for _, v := range r.VideoStreams {
		if !v.IsAttachedPic {
			out = append(out, v)
		}
	}
	return out
}
