package pack

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/fulmenhq/contentpacks/pkg/importer"
)

const (
	languagePackVersion = 1
	// imported content is authored in the pack language
	importedPercentTranslated = 100
)

// Metadata is written to metadata.json at the root of the bundle.
type Metadata struct {
	Code                string    `json:"code" yaml:"code"`
	Name                string    `json:"name" yaml:"name"`
	NativeName          string    `json:"native_name" yaml:"native_name"`
	SoftwareVersion     string    `json:"software_version" yaml:"software_version"`
	LanguagePackVersion int       `json:"language_pack_version" yaml:"language_pack_version"`
	PercentTranslated   int       `json:"percent_translated" yaml:"percent_translated"`
	SubtitleCount       int       `json:"subtitle_count" yaml:"subtitle_count"`
	VideoCount          int       `json:"video_count" yaml:"video_count"`
	ContentCount        int       `json:"content_count" yaml:"content_count"`
	AssessmentItemCount int       `json:"assessment_item_count" yaml:"assessment_item_count"`
	Channel             string    `json:"channel" yaml:"channel"`
	BuildID             string    `json:"build_id" yaml:"build_id"`
	GeneratedAt         time.Time `json:"generated_at" yaml:"generated_at"`
}

// NewMetadata describes res as a pack for opts. now is recorded as the
// generation time, truncated to seconds.
func NewMetadata(opts Options, res *importer.Result, now time.Time) Metadata {
	name, native := LanguageNames(opts.Language)
	m := Metadata{
		Code:                opts.Language,
		Name:                name,
		NativeName:          native,
		SoftwareVersion:     opts.SoftwareVersion,
		LanguagePackVersion: languagePackVersion,
		PercentTranslated:   importedPercentTranslated,
		Channel:             opts.Channel,
		BuildID:             uuid.NewString(),
		GeneratedAt:         now.UTC().Truncate(time.Second),
	}
	if res != nil {
		m.VideoCount = res.CountKind(importer.KindVideo)
		m.ContentCount = len(res.Nodes)
		m.AssessmentItemCount = len(res.AssessmentItems)
	}
	return m
}

// LanguageNames returns the English name and the self name of a language
// code, falling back to the code itself for either when x/text has none.
func LanguageNames(code string) (english, native string) {
	tag, err := language.Parse(code)
	if err != nil {
		return code, code
	}
	english = display.English.Languages().Name(tag)
	native = display.Self.Name(tag)
	if english == "" {
		english = code
	}
	if native == "" {
		native = code
	}
	return english, native
}
