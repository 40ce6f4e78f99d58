package rag

import "strings"

// ChunkText splits a document into overlapping windows of at most
// maxLen runes. Whitespace runs collapse first so chunk boundaries do
// not depend on the source formatting.
func ChunkText(text string, maxLen, overlap int) []string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	n := len(runes)

	var chunks []string
	for i := 0; i < n; {
		end := i + maxLen
		if end > n {
			end = n
		}
		if chunk := strings.TrimSpace(string(runes[i:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == n {
			break
		}
		i = end - overlap
		if i < 0 {
			i = 0
		}
	}
	return chunks
}
