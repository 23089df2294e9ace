package domain

// Document is a structured unit of text submitted for chunked ingestion.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
}

// Chunk is a window of a document's text with its offsets in the source.
type Chunk struct {
	Start int
	End   int
	Text  string
}

// SearchResult is an indexed entry matched by a query, with its cosine score.
type SearchResult struct {
	ID    int     `json:"id"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}

// ChunkMeta records where an indexed chunk came from.
type ChunkMeta struct {
	DocID      string            `json:"doc_id"`
	ChunkIndex int               `json:"chunk_index"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Source     map[string]string `json:"source,omitempty"`
}

// RichHit is a search result together with chunk provenance.
// Meta is nil for entries ingested without chunking.
type RichHit struct {
	ID    int        `json:"id"`
	Score float64    `json:"score"`
	Text  string     `json:"text"`
	Meta  *ChunkMeta `json:"meta"`
}

// Embedder converts free text into a numeric vector representation.
// Embed is the ingestion path and may grow shared vocabulary state;
// EmbedQuery is the search-time path and honors the vocabulary's
// freeze policy.
type Embedder interface {
	Name() string
	Embed(texts []string) ([][]float64, error)
	EmbedQuery(text string) ([]float64, error)
	Dimension() int
}

// IndexEntry is the persistable part of an indexed text. Vectors are
// not persisted: they are a pure function of text and vocabulary.
type IndexEntry struct {
	ID   int
	Text string
}

// IndexSnapshot is a value copy of an index's contents.
type IndexSnapshot struct {
	NextID  int
	Entries []IndexEntry
}

// Index stores embedded texts and answers ranked similarity queries.
type Index interface {
	Add(texts []string) ([]int, error)
	Search(query string, k int) ([]SearchResult, error)
	Reset()
	Len() int
	Snapshot() IndexSnapshot
	Restore(snap IndexSnapshot) error
}
