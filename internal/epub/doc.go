// Package epub supplies ordered chapter descriptors for matching.
//
// The matching pipeline only needs {id, title, opening text} per chapter, so
// the book structure is consumed through the Provider interface. Reader is
// the built-in Provider: it walks the EPUB zip container's OPF spine and
// extracts plain text from each XHTML document. Callers with their own book
// parser can substitute any Provider.
package epub
