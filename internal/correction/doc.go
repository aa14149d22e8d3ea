// Package correction turns a task's original text into corrected text. It
// derives speller options from the text, splits long input into chunks that
// fit the spelling service's limits, and drives a spelling.Speller over them.
package correction
