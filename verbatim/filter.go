package verbatim

// keep decides whether a body-paragraph run survives extraction under the
// given mode. The predicate is pure and evaluated once per run,
// independently of its neighbors. Runs with blank text are never kept:
// they contribute nothing and would only pollute the emptiness check that
// drops hollowed-out paragraphs.
func keep(r *Run, mode Mode) bool {
	if r.Empty() {
		return false
	}
	switch mode {
	case ModeHighlighted:
		return r.Highlighted()
	case ModeUnderlined:
		return r.Underline
	case ModeAnd:
		return r.Highlighted() && r.Underline
	default: // ModeEither
		return r.Highlighted() || r.Underline
	}
}
