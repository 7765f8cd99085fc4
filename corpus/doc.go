// Package corpus defines the read-only data model the lattice engine consumes:
// tokens, lines, folio metadata and adjacency evidence.
//
// What lives here:
//   - Line / Folio / Evidence: plain records, one corpus snapshot per dataset.
//   - FolioTable: the fixed, ordered range tables that resolve a folio number
//     to its section and scribal hand, plus the quire arithmetic.
//   - Corpus: an immutable snapshot with frequency and vocabulary helpers and
//     section filtering (used by holdout and section-aware validation).
//   - Reader / EvidenceReader: the collaborator boundary, with a file-backed
//     implementation reading JSON or YAML record files.
//
// Tokens are plain strings; normalization happens upstream in the
// transcription layer, this package only drops empty tokens.
//
// Determinism:
//   - Vocabulary() is lexicographically sorted.
//   - Sections() follows the range table order, never map order.
package corpus
