package outline

import "strings"

// CanonicalBullet is the marker every recognized bullet line is rewritten to.
const CanonicalBullet = "• "

// NormalizeBullets rewrites any leading -, *, +, •, or "1."-style numbered
// bullet to the canonical "• " marker, preserving leading indentation.
// Lines without a recognized marker are left untouched.
func NormalizeBullets(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		indent, rest, ok := splitBulletLine(ln)
		if !ok {
			continue
		}
		lines[i] = indent + CanonicalBullet + rest
	}
	return strings.Join(lines, "\n")
}

// IsBulletLine reports whether a (normalized or raw) line is a bullet.
func IsBulletLine(line string) bool {
	_, _, ok := splitBulletLine(line)
	return ok
}

// splitBulletLine classifies one line. A bullet is leading whitespace, then a
// recognized marker, then at least one whitespace character. The marker set is
// fixed on purpose: this is a small explicit classifier, not a pattern system.
func splitBulletLine(line string) (indent, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	indent = line[:len(line)-len(trimmed)]

	marker := 0
	switch {
	case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "*"), strings.HasPrefix(trimmed, "+"):
		marker = 1
	case strings.HasPrefix(trimmed, "•"):
		marker = len("•")
	default:
		// Numbered bullet: one or more digits followed by a dot.
		j := 0
		for j < len(trimmed) && trimmed[j] >= '0' && trimmed[j] <= '9' {
			j++
		}
		if j == 0 || j >= len(trimmed) || trimmed[j] != '.' {
			return "", "", false
		}
		marker = j + 1
	}

	after := trimmed[marker:]
	if after == "" || (after[0] != ' ' && after[0] != '\t') {
		return "", "", false
	}
	return indent, strings.TrimLeft(after, " \t"), true
}
