package queries

import "strings"

// Query keys identify one independent cached result.
const (
	scopeCharacters = "characters"
	scopeList       = "list"
	scopeInfinite   = "infinite"
	scopeDetail     = "detail"
)

func key(segments ...string) string {
	return strings.Join(segments, "/")
}

// CharactersKey covers every character query.
func CharactersKey() string {
	return key(scopeCharacters)
}

// ListKey covers every character listing.
func ListKey() string {
	return key(scopeCharacters, scopeList)
}

// InfiniteKey identifies the accumulated listing for one search term.
func InfiniteKey(search string) string {
	return key(scopeCharacters, scopeList, scopeInfinite, search)
}

// DetailKey identifies a single character fetched by id.
func DetailKey(id string) string {
	return key(scopeCharacters, scopeDetail, id)
}
