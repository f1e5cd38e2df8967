// Package websift searches the web for a query, fetches every result page
// and extracts its title, paragraphs and links into a single report.
//
// Pages are fetched with a cheap HTTP request first and escalated to a
// headless browser only when the cheap path fails. Each URL yields exactly
// one outcome, so a report always accounts for every search result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package websift
