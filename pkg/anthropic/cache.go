package anthropic

// BuildCachedSystemBlocks wraps text in a single system block carrying a
// 1-hour prompt cache breakpoint. The assessment system prompt and
// guideline block are identical across requests, so every call after the
// first reads them from the cache.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	return []SystemBlock{{
		Text:         text,
		CacheControl: &CacheControl{TTL: "1h"},
	}}
}
