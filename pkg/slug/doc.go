// Package slug turns arbitrary text into URL-safe identifiers such as
// public portfolio usernames.
//
//	slug.Make("Zoë O'Brien")                     // "zoe-o-brien"
//	slug.Make("Ada Lovelace", slug.MaxLength(5)) // "ada-l"
//	slug.Make("ada", slug.WithSuffix(4))         // "ada-x7g3"
//
// Diacritics are folded to ASCII with golang.org/x/text; anything that is
// not an ASCII letter or digit becomes a single hyphen. Output is lowercase
// and never starts or ends with a hyphen.
package slug
