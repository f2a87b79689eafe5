package diagrams

import (
	"fmt"
	"regexp"
	"strings"
)

// SanitizeFlowchart repairs common syntax problems in generated flowchart
// sources: invalid node ids, unquoted labels with special characters,
// unbalanced subgraphs and stray free text. Non-flowchart sources are
// returned unchanged.
func SanitizeFlowchart(source string) string {
	if !IsFlowchart(source) {
		return source
	}

	var out []string
	header := ""
	depth := 0
	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || strings.HasPrefix(line, "```"):
			continue
		case strings.HasPrefix(line, "graph ") || strings.HasPrefix(line, "flowchart "):
			if header == "" {
				header = line
			}
		case strings.HasPrefix(line, "%%"),
			strings.HasPrefix(line, "classDef "),
			strings.HasPrefix(line, "class "),
			strings.HasPrefix(line, "style "),
			strings.HasPrefix(line, "linkStyle "):
			out = append(out, line)
		case strings.HasPrefix(line, "subgraph "):
			out = append(out, line)
			depth++
		case line == "end":
			if depth > 0 {
				out = append(out, "end")
				depth--
			}
		default:
			if fixed := sanitizeLine(raw); fixed != "" {
				out = append(out, fixed)
			}
		}
	}
	for ; depth > 0; depth-- {
		out = append(out, "end")
	}
	if header == "" {
		header = "graph TD"
	}
	return strings.Join(append([]string{header}, out...), "\n")
}

var (
	// ID["label"] or ID[label]
	nodeDefRe = regexp.MustCompile(`^(\s*)(\S+?)(\[.*)$`)
	// ID --> ID or ID -->|label| ID
	edgeRe = regexp.MustCompile(`^(\s*)(\S+?)(\s*-->.*)$`)
	// target after --> or -->|...|
	edgeTargetRe = regexp.MustCompile(`(-->(?:\|[^|]*\|)?\s*)(\S+)(.*)$`)
)

var nodeIDReplacer = strings.NewReplacer(
	"&", "_", "#", "_", "@", "_", "!", "_", "?", "_",
	"(", "_", ")", "_", "[", "_", "]", "_", "{", "_", "}", "_",
	"<", "_", ">", "_", ";", "_", ",", "_", "'", "_", "\"", "_",
)

func sanitizeLine(line string) string {
	if m := edgeRe.FindStringSubmatch(line); m != nil {
		indent, rawSource, rest := m[1], m[2], m[3]
		tm := edgeTargetRe.FindStringSubmatch(rest)
		if tm == nil {
			return ""
		}
		arrow := strings.TrimSpace(tm[1])
		from := parseNodeRef(rawSource)
		to := parseNodeRef(strings.TrimSpace(tm[2] + tm[3]))
		return indent + from.String() + " " + arrow + " " + to.String()
	}

	if m := nodeDefRe.FindStringSubmatch(line); m != nil {
		indent, id, rest := m[1], m[2], m[3]
		label, class, ok := splitLabel(rest)
		if !ok {
			return ""
		}
		return indent + nodeRef{id: id, label: label, class: class, quoted: true}.String()
	}

	return ""
}

type nodeRef struct {
	id     string
	label  string
	class  string
	quoted bool
}

func (n nodeRef) String() string {
	var b strings.Builder
	b.WriteString(nodeIDReplacer.Replace(n.id))
	if n.label != "" || n.quoted {
		fmt.Fprintf(&b, `["%s"]`, EscapeLabel(n.label))
	}
	b.WriteString(n.class)
	return b.String()
}

// parseNodeRef splits "ID[label]:::class" into its parts.
func parseNodeRef(s string) nodeRef {
	s = strings.TrimSpace(s)
	var ref nodeRef

	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], ":::") {
			ref.class = s[i:]
			if sp := strings.IndexByte(ref.class, ' '); sp >= 0 {
				ref.class = ref.class[:sp]
			}
			s = s[:i]
			break
		}
	}

	open := strings.Index(s, "[")
	if open < 0 {
		ref.id = s
		return ref
	}
	ref.id = s[:open]
	if end := matchingBracket(s, open); end > 0 {
		ref.label = unquote(s[open+1 : end])
	}
	return ref
}

// splitLabel extracts the label and optional :::class suffix from "[label]...".
func splitLabel(rest string) (label, class string, ok bool) {
	open := strings.Index(rest, "[")
	if open < 0 {
		return "", "", false
	}
	end := matchingBracket(rest, open)
	if end < 0 {
		return "", "", false
	}
	label = unquote(strings.TrimSpace(rest[open+1 : end]))
	suffix := strings.TrimSpace(rest[end+1:])
	if strings.HasPrefix(suffix, ":::") {
		class = strings.Fields(suffix)[0]
	}
	return label, class, true
}

func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "\"") && strings.HasSuffix(s, "\"") {
		return s[1 : len(s)-1]
	}
	return s
}

var labelReplacer = strings.NewReplacer(
	"\"", "#quot;",
	"(", "#lpar;",
	")", "#rpar;",
	"[", "#lsqb;",
	"]", "#rsqb;",
	"{", "#lbrace;",
	"}", "#rbrace;",
	"<", "#lt;",
	">", "#gt;",
)

// EscapeLabel replaces characters with special meaning in mermaid labels by
// their entity codes.
func EscapeLabel(s string) string {
	return labelReplacer.Replace(s)
}
