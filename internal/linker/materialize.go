package linker

// Materialize produces the wikilink text that replaces word once the user
// confirms a match.
//
// When the word already equals the canonical name and no section is
// involved, the plain form suffices. Otherwise the word is kept as display
// text, so the user's casing and spelling survive the conversion.
func Materialize(word string, t Target) string {
	if word == t.ActualName && t.SubPath == "" {
		return "[[" + t.ActualName + "]]"
	}
	return "[[" + t.ActualName + t.SubPath + "|" + word + "]]"
}
