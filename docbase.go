// Package docbase ingests hierarchical documentation sites and discussion
// forums into a searchable knowledge base. It crawls pages category by
// category, detects content changes, splits text into overlapping chunks,
// indexes them with embeddings, and retrieves diverse, filtered context
// chunks for downstream answer generation.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package docbase
