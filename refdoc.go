// Package refdoc compresses raw package documentation into compact,
// agent-consumable reference text by driving external command-line
// generative backends through a uniform streaming generate-with-fallback
// contract. It can also build a semantic search index over chunked
// documents via a serialized background worker.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., exec/, sqlite/, gemini/).
package refdoc
