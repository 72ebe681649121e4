package vector

// Item is one vector to be written to the index: a unique id within its
// namespace, the embedding, and the payload needed to ground answers later.
type Item struct {
	ID       string
	Vector   []float32
	Text     string
	SourceID string
}

// Match is one ranked query hit. Similarity is cosine similarity in [-1, 1];
// matches arrive best-first.
type Match struct {
	ID         string
	Similarity float32
	Text       string
	SourceID   string
}
