package entity

import (
	"fmt"
	"sort"
	"strings"
)

type Format struct {
	Codec     string
	Extension string
	// ffmpeg arguments forwarded through the dependency post-processor
	PostprocessorArgs string
}

const DefaultFormat = "wav"

var formats = map[string]Format{
	"wav":    {Codec: "wav", Extension: "wav", PostprocessorArgs: "-acodec pcm_s16le"},
	"mp3":    {Codec: "mp3", Extension: "mp3"},
	"flac":   {Codec: "flac", Extension: "flac"},
	"m4a":    {Codec: "m4a", Extension: "m4a"},
	"aac":    {Codec: "aac", Extension: "m4a"},
	"alac":   {Codec: "alac", Extension: "m4a"},
	"opus":   {Codec: "opus", Extension: "opus"},
	"vorbis": {Codec: "vorbis", Extension: "ogg"},
}

func ParseFormat(codec string) (Format, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(codec))]
	if !ok {
		return Format{}, fmt.Errorf("%w: unsupported format %q (supported: %s)",
			ErrUsage, codec, strings.Join(Formats(), ", "))
	}
	return format, nil
}

func Formats() []string {
	codecs := make([]string, 0, len(formats))
	for codec := range formats {
		codecs = append(codecs, codec)
	}
	sort.Strings(codecs)
	return codecs
}

// Matches reports whether name carries exactly the format extension,
// so that "notes.wav.txt" is not a wav file.
func (format Format) Matches(name string) bool {
	return strings.HasSuffix(name, "."+format.Extension) && len(name) > len(format.Extension)+1
}
