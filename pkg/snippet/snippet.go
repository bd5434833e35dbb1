/*
Package snippet reads the tab-stop templates carried by catalog examples.

A template is plain text with numbered placeholder markers:

	create_label("${1:Label text}")

Each ${n:default} becomes tab stop n with default pre-filled. ${n} and $n are
empty stops, $0 marks the final cursor position. Stops that share an index are
linked and edited together by the host; an empty occurrence mirrors the first
default given for its index. Text without "${" is inserted verbatim.
*/
package snippet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnterminated is returned when a "${" marker is never closed.
	ErrUnterminated = errors.New("snippet: unterminated placeholder")
	// ErrBadIndex is returned when a marker has no numeric tab-stop index.
	ErrBadIndex = errors.New("snippet: invalid tab-stop index")
)

// maxIndex bounds tab-stop indices so huge digit runs cannot overflow.
const maxIndex = 1 << 16

// TabStop is one placeholder occurrence inside a template.
type TabStop struct {
	Index   int
	Default string
	// Offset and Length locate Default inside Template.Plain, in bytes.
	Offset int
	Length int
}

// Template is a parsed snippet.
type Template struct {
	Source string
	// Plain is the text the host shows right after insertion, defaults filled in.
	Plain string
	// Stops is ordered by Index, then by position. The final stop ($0) is not part of it.
	Stops []TabStop
	// Final is the byte offset in Plain where the cursor lands after the last stop.
	Final int
}

// IsTemplate reports whether s carries placeholder markers and must be
// inserted as a snippet rather than literal text.
func IsTemplate(s string) bool {
	return strings.Contains(s, "${")
}

// Parse reads s into a Template.
func Parse(s string) (*Template, error) {
	p := &parser{src: s, final: -1}
	if err := p.run(false); err != nil {
		return nil, err
	}

	// Mirrors take the first default of their index, so read again with
	// those defaults filled in.
	if mirror := mirrorDefaults(p.stops); mirror != nil {
		p = &parser{src: s, final: -1, mirror: mirror}
		if err := p.run(false); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(p.stops, func(i, j int) bool {
		if p.stops[i].Index != p.stops[j].Index {
			return p.stops[i].Index < p.stops[j].Index
		}
		return p.stops[i].Offset < p.stops[j].Offset
	})

	t := &Template{
		Source: s,
		Plain:  p.out.String(),
		Stops:  p.stops,
		Final:  p.final,
	}
	if t.Final < 0 {
		t.Final = len(t.Plain)
	}
	return t, nil
}

// PlainText returns the text of s with every placeholder replaced by its
// default. Literal text and unparsable templates come back unchanged.
func PlainText(s string) string {
	if !IsTemplate(s) {
		return s
	}
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Plain
}

// Max returns the highest tab-stop index, 0 when there are none.
func (t *Template) Max() int {
	if len(t.Stops) == 0 {
		return 0
	}
	return t.Stops[len(t.Stops)-1].Index
}

// Linked returns every occurrence of tab stop n, in text order.
func (t *Template) Linked(n int) []TabStop {
	var stops []TabStop
	for _, st := range t.Stops {
		if st.Index == n {
			stops = append(stops, st)
		}
	}
	return stops
}

// Indices returns the distinct tab-stop indices in ascending order.
func (t *Template) Indices() []int {
	var indices []int
	for _, st := range t.Stops {
		if len(indices) == 0 || indices[len(indices)-1] != st.Index {
			indices = append(indices, st.Index)
		}
	}
	return indices
}

// Contiguous reports whether the stops cover 1..Max() with no gaps.
func (t *Template) Contiguous() bool {
	for i, idx := range t.Indices() {
		if idx != i+1 {
			return false
		}
	}
	return true
}

type parser struct {
	src   string
	pos   int
	out   strings.Builder
	stops []TabStop
	final int
	// mirror holds the text written for empty occurrences of an index.
	mirror map[int]string
}

// mirrorDefaults maps each index that has both an empty occurrence and a
// default to the first default in text order. It returns nil when there is
// nothing to fill.
func mirrorDefaults(stops []TabStop) map[int]string {
	first := make(map[int]TabStop)
	empty := make(map[int]bool)
	for _, st := range stops {
		if st.Length == 0 {
			empty[st.Index] = true
			continue
		}
		if prev, ok := first[st.Index]; !ok || st.Offset < prev.Offset {
			first[st.Index] = st
		}
	}

	var mirror map[int]string
	for index := range empty {
		if st, ok := first[index]; ok {
			if mirror == nil {
				mirror = make(map[int]string)
			}
			mirror[index] = st.Default
		}
	}
	return mirror
}

// run consumes input until the end, or until the closing brace of the
// placeholder being read when inside is true.
func (p *parser) run(inside bool) error {
	depth := 0
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch {
		case ch == '\\' && p.pos+1 < len(p.src) && strings.IndexByte(`$}\`, p.src[p.pos+1]) >= 0:
			p.out.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case ch == '$':
			if err := p.marker(); err != nil {
				return err
			}
		case inside && ch == '{':
			depth++
			p.out.WriteByte(ch)
			p.pos++
		case inside && ch == '}':
			p.pos++
			if depth == 0 {
				return nil
			}
			depth--
			p.out.WriteByte(ch)
		default:
			p.out.WriteByte(ch)
			p.pos++
		}
	}
	if inside {
		return ErrUnterminated
	}
	return nil
}

// marker reads a placeholder starting at the '$' under p.pos.
func (p *parser) marker() error {
	start := p.pos
	next := p.pos + 1

	if next < len(p.src) && isDigit(p.src[next]) {
		p.pos = next
		index, ok := p.index()
		if !ok {
			return fmt.Errorf("%w at offset %d", ErrBadIndex, start)
		}
		p.addEmpty(index)
		return nil
	}
	if next >= len(p.src) || p.src[next] != '{' {
		p.out.WriteByte('$')
		p.pos++
		return nil
	}

	p.pos = next + 1
	if p.pos >= len(p.src) {
		return fmt.Errorf("%w at offset %d", ErrUnterminated, start)
	}
	if !isDigit(p.src[p.pos]) {
		return fmt.Errorf("%w at offset %d", ErrBadIndex, start)
	}
	index, ok := p.index()
	if !ok {
		return fmt.Errorf("%w at offset %d", ErrBadIndex, start)
	}
	if p.pos >= len(p.src) {
		return fmt.Errorf("%w at offset %d", ErrUnterminated, start)
	}

	switch p.src[p.pos] {
	case '}':
		p.pos++
		p.addEmpty(index)
		return nil
	case ':':
		p.pos++
		offset := p.out.Len()
		if err := p.run(true); err != nil {
			if err == ErrUnterminated {
				return fmt.Errorf("%w at offset %d", ErrUnterminated, start)
			}
			return err
		}
		p.addStop(index, offset, p.out.Len()-offset)
		return nil
	default:
		return fmt.Errorf("%w at offset %d", ErrBadIndex, start)
	}
}

// index reads the digits under p.pos. ok is false past maxIndex.
func (p *parser) index() (n int, ok bool) {
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		n = n*10 + int(p.src[p.pos]-'0')
		p.pos++
		if n > maxIndex {
			return 0, false
		}
	}
	return n, true
}

// addEmpty records a stop written without a default, filling in the
// mirrored text when there is one.
func (p *parser) addEmpty(index int) {
	offset := p.out.Len()
	if text, ok := p.mirror[index]; ok && index != 0 {
		p.out.WriteString(text)
	}
	p.addStop(index, offset, p.out.Len()-offset)
}

func (p *parser) addStop(index, offset, length int) {
	if index == 0 {
		if p.final < 0 {
			p.final = offset
		}
		return
	}
	plain := p.out.String()
	p.stops = append(p.stops, TabStop{
		Index:   index,
		Default: plain[offset : offset+length],
		Offset:  offset,
		Length:  length,
	})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
