package kip

import "net/url"

// PackageURL renders the package URL sysand uses to identify a published
// project, matching the `purl=pkg:sysand/<name>@<version>` field of the
// publish endpoint described in spec.md §6.
func PackageURL(name, version string) string {
	return "pkg:sysand/" + url.PathEscape(name) + "@" + url.PathEscape(version)
}
