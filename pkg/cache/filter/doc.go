// Package filter implements the boolean query language used by saved
// filters and listing commands: date keywords (today, tomorrow,
// overdue, "no date", "7 days"), priorities (p1..p4), @label, #project,
// ##project-with-subprojects, /section references, and the &, |, !
// operators with parentheses.
//
// The lexer records an error for every unrecognized character and keeps
// going; the parser consumes whatever tokens survived.
package filter
