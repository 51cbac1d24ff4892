// Package docdex provides a local, version-aware search index over
// documentation sites. It crawls sites (including JavaScript-rendered
// single-page applications), extracts content as markdown, splits it into
// heading-addressed chunks, and ranks them with a lexical relevance function
// for consumption by automated agents.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, rod/, robots/).
package docdex
