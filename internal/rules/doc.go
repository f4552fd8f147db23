// Package rules defines the declarative insertion-rule model that drives
// every graft run.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures describing WHERE
//     to anchor an insertion, WHAT to insert, and HOW to recognise that the
//     insertion already happened.
//   - Load rule sets from TOML documents with strict schema validation, so
//     malformed rules fail at load time rather than mid-patch.
//   - Offer advisory lint checks for rule sets that are valid but likely
//     wrong (mixed Unicode normalization forms, shared markers).
//
// # Scope
//
// Package rules performs no matching and no text editing. Anchor resolution
// lives in internal/match, planning and application in internal/patch.
//
// # Data model
//
// Rule is the central record. It contains:
//
//   - ID: stable identifier used in reports and error messages.
//   - Marker: literal substring whose presence in a target buffer proves the
//     rule was already applied. The marker MUST occur in Insert.Content,
//     otherwise re-running the rule would insert forever; Validate rejects
//     such rules.
//   - Anchor: exactly one of Equals (whole line, byte for byte with its
//     indentation), Contains (raw substring of a line), or
//     Pattern (RE2 regular expression matched against the whole buffer,
//     capture groups allowed). Occurrences selects the first match only
//     (default) or every match.
//   - Context: additional line predicates at relative offsets from a
//     candidate anchor line; all must hold. Contexts apply to line anchors
//     only. SkipBlank makes an offset count non-blank lines.
//   - Insert: the insertion itself. Position (before, after, replace),
//     Content (possibly multi-line; for replace it is an RE2 expansion
//     template, so $1 and ${name} refer to capture groups), Indent (anchor
//     inherits the anchor line's leading whitespace, none inserts verbatim),
//     and Group (which capture group a replace targets; 0 is the whole
//     match).
//
// # Rule files
//
// A rule set is a TOML document holding an array of [[rule]] tables:
//
//	[[rule]]
//	id     = "click-log"
//	marker = "DEBUG: Click event occurred"
//
//	[rule.anchor]
//	equals = "    if (ui->crf_radioButton->isChecked())"
//
//	[[rule.context]]
//	offset   = 1
//	contains = "switch"
//
//	[rule.insert]
//	position = "before"
//	content  = 'qDebug() << "DEBUG: Click event occurred";'
//
// Unknown keys are rejected: a typo like "postion" fails the load instead of
// silently disabling the rule.
package rules
