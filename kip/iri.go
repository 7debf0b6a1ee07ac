// Package kip implements the data model of a KerML Interchange Project:
// project information, metadata, usages and source descriptors.
package kip

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// IRI is a validated RFC 3987 internationalised resource identifier, stored
// in its original textual form.
type IRI struct {
	text string
}

// InvalidIRIError reports a failure to parse a stored IRI.
type InvalidIRIError struct {
	Text string
	Err  error
}

func (e *InvalidIRIError) Error() string {
	return errors.Wrapf(e.Err, "invalid IRI %q", e.Text).Error()
}

func (e *InvalidIRIError) Unwrap() error { return e.Err }

// ParseIRI validates text as an IRI. Go's net/url is a pragmatic stand-in
// for a full RFC 3987 parser: it accepts the Unicode-bearing authority and
// path forms that RFC 3987 adds on top of RFC 3986, which is what sysand's
// usage resources and website fields actually carry.
func ParseIRI(text string) (IRI, error) {
	if strings.TrimSpace(text) == "" {
		return IRI{}, &InvalidIRIError{Text: text, Err: errors.New("empty IRI")}
	}
	if _, err := url.Parse(text); err != nil {
		return IRI{}, &InvalidIRIError{Text: text, Err: err}
	}
	return IRI{text: text}, nil
}

// String returns the original textual form.
func (i IRI) String() string { return i.text }

// Normalised returns a lowercase-scheme, percent-normalised form used for
// textual equality comparisons (e.g. between two Usages).
func (i IRI) Normalised() string {
	u, err := url.Parse(i.text)
	if err != nil {
		return i.text
	}
	u.Scheme = strings.ToLower(u.Scheme)
	return u.String()
}

// Equal reports whether two IRIs are textually equal post-normalisation.
func (i IRI) Equal(other IRI) bool {
	return i.Normalised() == other.Normalised()
}
