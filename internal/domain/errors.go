package domain

import "errors"

var (
	// ErrEmptyQuery signals that no usable query text was supplied.
	ErrEmptyQuery = errors.New("empty query")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmptyEmbedding signals that the provider returned no vector for the input.
	ErrEmptyEmbedding = errors.New("empty embedding")
	// ErrCompletionProviderError signals a chat completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
	// ErrWebSearchUnavailable signals that the live web search backend failed.
	ErrWebSearchUnavailable = errors.New("web search unavailable")
	// ErrRateLimited signals a provider rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrTransient marks provider failures worth retrying (429, 5xx, network).
	ErrTransient = errors.New("transient provider failure")
)
