// Package extractors provides implementations of the Extractor interface
// for the supported upload content types. Each extractor knows how to
// turn one kind of upload into document text; multi-page extractors also
// report per-page outcomes.
//
// Extractors are registered with the Registry at startup.
package extractors
