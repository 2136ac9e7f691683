// Package citation fills research placeholders in generated Markdown and
// keeps footnote numbering compact.
//
// A document may contain lines of the form "TODO: <query>". FillTodos
// replaces each marker with a bulleted list of web search results, records
// every linked (title, url) pair in a ReferenceStore and finally renumbers
// footnote markers ("[^7]", "[^2]", ...) in first-seen order.
//
// FileReferenceStore persists the url -> title mapping as indented JSON.
package citation
