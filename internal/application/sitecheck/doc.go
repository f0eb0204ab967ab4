// Package sitecheck runs the TLS, header, reputation and mixed-content checks
// for a URL as one unit of work and reduces them to a scored report.
package sitecheck
