package catalog

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	githubURL   = regexp.MustCompile(`^https://github\.com/[\w.-]+/[\w.-]+/?$`)
	semver      = regexp.MustCompile(`^\d+\.\d+\.\d+([-+][\w.-]+)?$`)
	conceptPath = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(/[a-z0-9][a-z0-9-]*)*$`)
)

// Validate checks a library entry.
func (lib Library) Validate() error {
	return validation.ValidateStruct(&lib,
		validation.Field(&lib.Name, validation.Required),
		validation.Field(&lib.Description, validation.Required),
		validation.Field(&lib.GithubURL, validation.Required, validation.Match(githubURL)),
		validation.Field(&lib.Version, validation.Match(semver)),
		validation.Field(&lib.LastUpdated, validation.Date("2006-01-02")),
		validation.Field(&lib.Stars, validation.Min(0)),
		validation.Field(&lib.Concepts),
	)
}

// Validate checks a concept entry.
func (c Concept) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Path, validation.Required, validation.Match(conceptPath)),
	)
}
