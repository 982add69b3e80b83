package content

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// schemas describe the admin form contract per collection. The upload pipeline
// never consults them; seed data is written as-is.
var schemas = map[string][]*validation.KeyRules{
	CollectionProjects: {
		validation.Key("title", validation.Required, validation.Length(1, 200)),
		validation.Key("description", validation.Required),
		validation.Key("liveUrl", is.URL).Optional(),
		validation.Key("githubUrl", is.URL).Optional(),
	},
	CollectionExperiences: {
		validation.Key("title", validation.Required),
		validation.Key("company", validation.Required),
	},
	CollectionSkills: {
		validation.Key("name", validation.Required, validation.Length(1, 100)),
	},
	CollectionTestimonials: {
		validation.Key("name", validation.Required),
		validation.Key("content", validation.Required),
	},
	CollectionCertifications: {
		validation.Key("title", validation.Required),
		validation.Key("issuer", validation.Required),
		validation.Key("credentialUrl", is.URL).Optional(),
	},
	CollectionEducation: {
		validation.Key("institution", validation.Required),
		validation.Key("degree", validation.Required),
	},
	CollectionServices: {
		validation.Key("title", validation.Required),
	},
	CollectionSettings: {
		validation.Key("name", validation.Required),
		validation.Key("email", is.EmailFormat).Optional(),
	},
}

// Validate checks a record against its collection's admin schema. Collections
// without a schema accept any record.
func Validate(collection string, r Record) error {
	keys, ok := schemas[collection]
	if !ok {
		return nil
	}
	return validation.Validate(map[string]any(r), validation.Map(keys...).AllowExtraKeys())
}
