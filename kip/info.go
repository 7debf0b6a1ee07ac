package kip

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// InfoRaw is the unvalidated form of project information, as read directly
// off the wire (.project.json) or constructed by a caller before validation.
type InfoRaw struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Version     string     `json:"version"`
	License     *string    `json:"license,omitempty"`
	Maintainer  []string   `json:"maintainer,omitempty"`
	Website     *string    `json:"website,omitempty"`
	Topic       []string   `json:"topic,omitempty"`
	Usage       []UsageRaw `json:"usage,omitempty"`
}

// Info is a validated project information record: every string that claims
// to be a SemVer, SPDX expression or IRI has successfully parsed as one.
type Info struct {
	Name        string
	Description *string
	Version     *semver.Version
	License     *string
	Maintainer  []string
	Website     *IRI
	Topic       []string
	Usage       []Usage
}

// ValidationError reports a single field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return errors.Wrapf(e.Err, "%s", e.Field).Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// spdxExpr is a conservative approximation of an SPDX license expression:
// identifiers joined by AND/OR/WITH, optionally parenthesised. It is not a
// full SPDX grammar, but it rejects the common mistakes (empty string,
// stray punctuation) that a .project.json typo would produce.
var spdxExpr = regexp.MustCompile(`^[A-Za-z0-9.+\-]+(\s+(AND|OR|WITH)\s+[A-Za-z0-9.+\-]+)*$`)

func validateSPDX(expr string) error {
	trimmed := strings.TrimSpace(expr)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	if trimmed == "" || !spdxExpr.MatchString(trimmed) {
		return errors.Errorf("not a valid SPDX license expression: %q", expr)
	}
	return nil
}

// Validate parses every string-typed field of a raw project information
// record, returning a validated Info iff all of them succeed.
func (r InfoRaw) Validate() (Info, error) {
	if strings.TrimSpace(r.Name) == "" {
		return Info{}, &ValidationError{Field: "name", Err: errors.New("must not be empty")}
	}

	v, err := semver.NewVersion(r.Version)
	if err != nil {
		return Info{}, &ValidationError{Field: "version", Err: err}
	}

	info := Info{
		Name:        r.Name,
		Description: r.Description,
		Version:     v,
		Maintainer:  append([]string(nil), r.Maintainer...),
		Topic:       append([]string(nil), r.Topic...),
	}

	if r.License != nil {
		if err := validateSPDX(*r.License); err != nil {
			return Info{}, &ValidationError{Field: "license", Err: err}
		}
		info.License = r.License
	}

	if r.Website != nil {
		iri, err := ParseIRI(*r.Website)
		if err != nil {
			return Info{}, &ValidationError{Field: "website", Err: err}
		}
		info.Website = &iri
	}

	info.Usage = make([]Usage, len(r.Usage))
	for i, u := range r.Usage {
		validated, err := u.Validate()
		if err != nil {
			return Info{}, &ValidationError{Field: "usage", Err: err}
		}
		info.Usage[i] = validated
	}

	return info, nil
}

// Raw discards validation, recovering the textual representation suitable
// for JSON serialisation.
func (i Info) Raw() InfoRaw {
	raw := InfoRaw{
		Name:        i.Name,
		Description: i.Description,
		Version:     i.Version.Original(),
		License:     i.License,
		Maintainer:  append([]string(nil), i.Maintainer...),
		Topic:       append([]string(nil), i.Topic...),
	}
	if i.Website != nil {
		s := i.Website.String()
		raw.Website = &s
	}
	raw.Usage = make([]UsageRaw, len(i.Usage))
	for idx, u := range i.Usage {
		raw.Usage[idx] = u.Raw()
	}
	return raw
}

// UsageRaw is the unvalidated form of a usage declaration.
type UsageRaw struct {
	Resource          string  `json:"resource" toml:"resource"`
	VersionConstraint *string `json:"version_constraint,omitempty" toml:"version_constraint,omitempty"`
}

// Usage is a validated reference to another project: a resource IRI and an
// optional SemVer constraint expression.
type Usage struct {
	Resource          IRI
	VersionConstraint *semver.Constraints
	rawConstraint     string
}

// Validate parses a usage's resource IRI and version constraint.
func (r UsageRaw) Validate() (Usage, error) {
	iri, err := ParseIRI(r.Resource)
	if err != nil {
		return Usage{}, errors.Wrap(err, "resource")
	}
	u := Usage{Resource: iri}
	if r.VersionConstraint != nil {
		c, err := semver.NewConstraint(*r.VersionConstraint)
		if err != nil {
			return Usage{}, errors.Wrapf(err, "version_constraint %q", *r.VersionConstraint)
		}
		u.VersionConstraint = c
		u.rawConstraint = *r.VersionConstraint
	}
	return u, nil
}

// Raw discards validation.
func (u Usage) Raw() UsageRaw {
	raw := UsageRaw{Resource: u.Resource.String()}
	if u.VersionConstraint != nil {
		s := u.rawConstraint
		raw.VersionConstraint = &s
	}
	return raw
}

// Equal reports whether two usages are textually equal post-normalisation,
// per spec: both the resource IRI and the constraint expression must match.
func (u Usage) Equal(other Usage) bool {
	if !u.Resource.Equal(other.Resource) {
		return false
	}
	return u.rawConstraint == other.rawConstraint
}

// Satisfies reports whether v meets this usage's version constraint. A
// usage with no constraint is satisfied by any version.
func (u Usage) Satisfies(v *semver.Version) bool {
	if u.VersionConstraint == nil {
		return true
	}
	return u.VersionConstraint.Check(v)
}
