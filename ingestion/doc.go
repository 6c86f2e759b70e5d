// Package ingestion loads source documents, splits them into overlapping
// chunks and stores them with embeddings.
//
// The loader reads PDF (per page), Markdown (plain text extracted from the
// AST) and plain text files. The splitter cuts text recursively along
// paragraph, line, word and character boundaries, measuring sizes in
// tokens. The pipeline embeds chunk batches in parallel on a worker pool
// and writes them through the chunk repository, which makes re-ingestion
// of unchanged content idempotent via content-based IDs.
package ingestion
