// Package sitemirror mirrors dynamically-rendered websites into a
// locally servable directory tree. It crawls a single allowed domain
// to a bounded depth, downloads the static assets each page references,
// and rewrites the pages to point at the local copies.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/,
// goquery/, http/, fs/).
package sitemirror
