package format

import (
	"fmt"

	"github.com/mediabatch/convertron/internal/mediatype"
)

// allowedSources maps a target category to the source categories that may
// convert into it. One table instead of string comparisons scattered
// through the call sites.
var allowedSources = map[mediatype.Category][]mediatype.Category{
	mediatype.Audio:    {mediatype.Audio, mediatype.Video},
	mediatype.Video:    {mediatype.Video, mediatype.Subtitle},
	mediatype.Image:    {mediatype.Image, mediatype.Document},
	mediatype.Document: {mediatype.Document},
	mediatype.Subtitle: {mediatype.Subtitle},
}

// Validate reports whether converting a source category into a target
// category is permitted. It is a pure, total function of the two enums;
// the reason is empty when the pair is allowed and human-readable when it
// is not. An Invalid source is always rejected.
func Validate(source, target mediatype.Category) (bool, string) {
	if source == mediatype.Invalid {
		return false, "file is not a convertible media type"
	}
	for _, s := range allowedSources[target] {
		if s == source {
			return true, ""
		}
	}
	return false, fmt.Sprintf("cannot convert %s to %s", source, target)
}
