package ingestion

import "errors"

var (
	// ErrChunkRepositoryRequired indicates a nil chunk repository was provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrAIProviderRequired indicates a nil AI provider was provided.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// ErrUnsupportedFormat indicates a file type the loader cannot read.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument indicates a source yielded no extractable text.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)
