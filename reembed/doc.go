// Package reembed regenerates embeddings for the stored corpus in batches,
// with retry, backoff and progress reporting. It is an administrative
// operation, run after changing the embedding model or endpoint.
package reembed
