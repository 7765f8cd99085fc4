// Package artifact persists pipeline records as JSON or YAML files.
//
// Every record is wrapped in an envelope carrying generated_at and run_id
// and written twice: under latest/<path> and under runs/<run-id>/<path>.
// Writes go to a temporary file in the target directory followed by a
// rename, so readers never observe a partial record. The format follows the
// extension of the logical path (.json, .yaml, .yml).
package artifact
