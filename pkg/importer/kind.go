package importer

import (
	"sort"
	"strings"
)

// Kind is the content kind of a node.
type Kind string

const (
	KindTopic        Kind = "Topic"
	KindVideo        Kind = "Video"
	KindImage        Kind = "Image"
	KindPresentation Kind = "Presentation"
	KindSpreadsheet  Kind = "Spreadsheet"
	KindCode         Kind = "Code"
	KindAudio        Kind = "Audio"
	KindDocument     Kind = "Document"
	KindArchive      Kind = "Archive"
	KindExercise     Kind = "Exercise"
)

// extensionKinds is the fixed extension table. "html" is listed once, as a
// Document; "exercise" is the pseudo-extension of exercise archives.
var extensionKinds = map[string]Kind{
	"mp4": KindVideo, "mov": KindVideo, "3gp": KindVideo, "amv": KindVideo, "asf": KindVideo,
	"asx": KindVideo, "avi": KindVideo, "mpg": KindVideo, "swf": KindVideo, "wmv": KindVideo,

	"tif": KindImage, "bmp": KindImage, "png": KindImage, "jpg": KindImage, "jpeg": KindImage,

	"ppt": KindPresentation, "pptx": KindPresentation,

	"xls": KindSpreadsheet, "xlsx": KindSpreadsheet,

	"js": KindCode, "css": KindCode, "py": KindCode,

	"mp3": KindAudio, "wma": KindAudio, "wav": KindAudio, "mid": KindAudio, "ogg": KindAudio,

	"pdf": KindDocument, "txt": KindDocument, "rtf": KindDocument, "html": KindDocument,
	"xml": KindDocument, "doc": KindDocument, "qxd": KindDocument, "docx": KindDocument,

	"zip": KindArchive, "bzip2": KindArchive, "cab": KindArchive, "gzip": KindArchive,
	"mar": KindArchive, "tar": KindArchive,

	"exercise": KindExercise,
}

// Extension returns the text after the last "." of a file name, or "" when
// the name has no dot.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// ClassifyFile maps a file name to its kind via the extension table. The
// lookup is case-insensitive; the returned extension keeps its original case.
func ClassifyFile(name string) (Kind, string, bool) {
	ext := Extension(name)
	if ext == "" {
		return "", "", false
	}
	kind, ok := extensionKinds[strings.ToLower(ext)]
	if !ok {
		return "", ext, false
	}
	return kind, ext, true
}

// Classify returns KindTopic for directories and the extension kind for
// files. The bool is false for files that should be skipped.
func Classify(name string, isDir bool) (Kind, bool) {
	if isDir {
		return KindTopic, true
	}
	kind, _, ok := ClassifyFile(name)
	return kind, ok
}

// IsSidecar reports whether name is a metadata sidecar and never a node.
func IsSidecar(name string) bool {
	return strings.HasSuffix(name, ".json")
}

// sortedKinds flattens a kind set into a stable, non-nil slice.
func sortedKinds(set map[Kind]struct{}) []Kind {
	out := make([]Kind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
