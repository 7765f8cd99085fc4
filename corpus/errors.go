package corpus

import "errors"

var (
	// ErrEmptyCorpus is returned when a dataset has no lines or no tokens.
	ErrEmptyCorpus = errors.New("corpus: empty corpus")

	// ErrBadFolioID indicates a folio id that does not match f<number><side>.
	ErrBadFolioID = errors.New("corpus: malformed folio id")

	// ErrUnknownFormat indicates a record file with an unsupported extension.
	ErrUnknownFormat = errors.New("corpus: unknown record format")

	// ErrDatasetNotFound is returned by readers when no record file exists.
	ErrDatasetNotFound = errors.New("corpus: dataset not found")
)
