// Package pack turns an import result into a distributable language pack:
// a zip bundle with node data, assessment data, staged payloads and a
// README, optionally uploaded to object storage.
package pack

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"
)

// versionPattern accepts the platform's release numbers, e.g. 0.17 or 0.17.2.
var versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

const maxChannelLength = 128

// Options describes the pack being built.
type Options struct {
	Language        string
	SoftwareVersion string
	Channel         string

	// NoAssessmentItems writes an empty assessment item list.
	NoAssessmentItems bool
	// NoAssessmentResources leaves exercise resource files out of the bundle.
	NoAssessmentResources bool
}

// Validate checks the options before anything is imported or written.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Language, validation.Required, validation.By(languageTag)),
		validation.Field(&o.SoftwareVersion,
			validation.Required,
			validation.Match(versionPattern).Error("must look like 0.17 or 0.17.2"),
		),
		validation.Field(&o.Channel,
			validation.Required,
			validation.Length(1, maxChannelLength),
		),
	)
}

func languageTag(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := language.Parse(s); err != nil {
		return errors.New("must be a BCP 47 language tag")
	}
	return nil
}
