// Package analysis derives read-only reports from a solved category: how full
// each option is, how many participants got their first, second, … choice,
// and which under-filled options had interested participants placed elsewhere.
package analysis
