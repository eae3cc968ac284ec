// Package xssfilter is a whitelist-driven HTML sanitizer that works on
// the token stream rather than a parsed tree.
//
// # Overview
//
// Input is split into text and tag tokens by the
// golang.org/x/net/html tokenizer. Each token is judged on its own:
//
//   - Text passes through verbatim.
//   - A tag whose name is not permitted is kept as visible text, with
//     its literal source escaped ("<" becomes "&lt;", ">" becomes
//     "&gt;"). Comments and doctypes are treated the same way.
//   - A permitted tag is re-serialized from its name and the subset of
//     its attributes that are permitted on it. Everything else the
//     source tag carried is dropped.
//
// No stack of open elements is kept, so unbalanced input comes out
// unbalanced. The goal is that nothing outside the whitelist is live
// markup, not well-formedness.
//
// # Whitelist
//
// A [Whitelist] maps tag names to permitted attribute names. It starts
// empty, which escapes every tag. [Whitelist.LoadDefault] adds anchors
// with href and title. Whitelists can also be read from YAML with
// [LoadWhitelist].
//
// # Attribute values
//
// Only attribute names are checked. A permitted href may still carry a
// javascript: URL. Values are written back double-quoted with "&" and
// the quote character re-encoded, so a value always stays inside its
// attribute. Install a [ValueFilter] with [WithValueFilter] to check
// values, for example [SchemeFilter].
//
// # Hooks
//
// A [Policy] passed with [WithPolicy] is asked before the whitelist for
// every tag and attribute. [Hooks] wraps plain functions as a Policy.
//
// # Thread Safety
//
// Sanitize may run concurrently once the whitelist is no longer being
// modified. Whitelist does no locking; use [Whitelist.Clone] to freeze a
// copy for sharing.
//
// # Example
//
//	s := xssfilter.New()
//	s.Permit("a", "href", "title")
//	s.Permit("b")
//	clean := s.Sanitize(userInput)
package xssfilter
