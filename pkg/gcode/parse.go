package gcode

import (
	"bufio"
	"errors"
	"fmt"
	gomath "math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/xburn/pkg/math"
)

// Parse errors.
var (
	ErrUnsupportedCommand = errors.New("unsupported command")
	ErrMalformedLine      = errors.New("malformed line")
)

// ParseOptions controls how unknown input is treated.
type ParseOptions struct {
	// Strict rejects any line that is not a move, laser command, comment or
	// one of the setup codes in setupCodes.
	Strict bool
	// LaserOnCodes and LaserOffCodes name the M codes that switch the laser.
	LaserOnCodes  []string
	LaserOffCodes []string
}

// DefaultParseOptions returns lenient parsing with GRBL laser codes.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		LaserOnCodes:  []string{"M3", "M4"},
		LaserOffCodes: []string{"M5"},
	}
}

// setupCodes are the non-motion codes strict mode accepts.
var setupCodes = map[string]bool{
	"G20": true, "G21": true, "G90": true, "G91": true,
	"G28": true, "G92": true, "M2": true, "M30": true,
}

// Parse reads G-code text with DefaultParseOptions.
func Parse(text string) (*Document, error) {
	return ParseWith(text, DefaultParseOptions())
}

// ParseFile reads a G-code file from disk.
func ParseFile(path string, opts ParseOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading G-code file: %w", err)
	}
	return ParseWith(string(data), opts)
}

// ParseWith reads G-code text. Moves are resolved to absolute targets using
// the modal position and the G90/G91 distance mode.
func ParseWith(text string, opts ParseOptions) (*Document, error) {
	p := parser{
		opts:   opts,
		on:     codeSet(opts.LaserOnCodes),
		off:    codeSet(opts.LaserOffCodes),
		motion: -1,
	}
	doc := &Document{}
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		cmd, err := p.parseLine(strings.TrimRight(sc.Text(), "\r"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
		doc.cmds = append(doc.cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	return doc, nil
}

type parser struct {
	opts    ParseOptions
	on, off map[string]bool

	line     int
	pos      math.Vec3
	known    Axis
	relative bool
	motion   Kind // -1 until the first G0/G1
}

type word struct {
	letter byte
	num    string
	val    float64
}

// code returns the normalized command word, e.g. "G01" -> "G1".
func (w word) code() string {
	return string(w.letter) + strconv.FormatFloat(w.val, 'f', -1, 64)
}

// source returns the word as written, upper-cased.
func (w word) source() string {
	return string(w.letter) + w.num
}

func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		ws, err := tokenize(c)
		if err == nil && len(ws) == 1 {
			set[ws[0].code()] = true
		}
	}
	return set
}

// tokenize splits "G1X10 Y-2.5" into letter/number words.
func tokenize(s string) ([]word, error) {
	var words []word
	i := 0
	for i < len(s) {
		c := s[i]
		if c == ' ' || c == '\t' {
			i++
			continue
		}
		if !isLetter(c) {
			return nil, fmt.Errorf("%w: unexpected %q", ErrMalformedLine, c)
		}
		letter := upper(c)
		i++
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		start := i
		for i < len(s) && isNumberChar(s[i]) {
			i++
		}
		num := s[start:i]
		v, err := strconv.ParseFloat(num, 64)
		if err != nil || gomath.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: bad number %q after %c", ErrMalformedLine, num, letter)
		}
		words = append(words, word{letter: letter, num: num, val: v})
	}
	return words, nil
}

func isLetter(c byte) bool     { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isNumberChar(c byte) bool { return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+' }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

// splitComment separates code from a trailing comment. ok is false when a
// parenthesized comment is unterminated or followed by more code.
func splitComment(line string) (code, comment string, style CommentStyle, has, ok bool) {
	semi := strings.IndexByte(line, ';')
	paren := strings.IndexByte(line, '(')
	switch {
	case semi >= 0 && (paren < 0 || semi < paren):
		return line[:semi], line[semi+1:], Semicolon, true, true
	case paren >= 0:
		end := strings.IndexByte(line[paren:], ')')
		if end < 0 {
			return "", "", Paren, false, false
		}
		end += paren
		if strings.TrimSpace(line[end+1:]) != "" {
			return "", "", Paren, false, false
		}
		return line[:paren], line[paren+1 : end], Paren, true, true
	default:
		return line, "", Semicolon, false, true
	}
}

func (p *parser) parseLine(raw string) (Command, error) {
	other := Command{Kind: Other, Raw: raw}
	if strings.TrimSpace(raw) == "" {
		return other, nil
	}

	code, comment, style, hasComment, ok := splitComment(raw)
	if !ok {
		if p.opts.Strict {
			return Command{}, fmt.Errorf("%w: unterminated comment", ErrMalformedLine)
		}
		return other, nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return Command{Kind: Comment, Comment: comment, CommentStyle: style, HasComment: true}, nil
	}

	words, err := tokenize(code)
	if err != nil {
		if p.opts.Strict {
			return Command{}, err
		}
		return other, nil
	}

	cmd := Command{Comment: comment, CommentStyle: style, HasComment: hasComment}
	var gs, ms []word
	var axes []word
	extra := false
	for _, w := range words {
		switch w.letter {
		case 'G':
			gs = append(gs, w)
		case 'M':
			ms = append(ms, w)
		case 'X', 'Y', 'Z':
			axes = append(axes, w)
		case 'F':
			cmd.Feed, cmd.HasFeed = w.val, true
		case 'S':
			cmd.Power, cmd.HasPower = w.val, true
		case 'N':
			cmd.Line, cmd.HasLine = int(w.val), true
		default:
			extra = true
		}
	}

	switch {
	case !extra && len(ms) == 0 && len(gs) == 1 && isMotion(gs[0]):
		cmd.Kind = motionKind(gs[0])
		cmd.Code = gs[0].source()
		p.motion = cmd.Kind
		p.move(&cmd, axes)
		return cmd, nil

	case !extra && len(ms) == 0 && len(gs) == 0 && len(axes) > 0 && p.motion >= 0:
		cmd.Kind = p.motion
		p.move(&cmd, axes)
		return cmd, nil

	case !extra && len(gs) == 0 && len(axes) == 0 && !cmd.HasFeed && len(ms) == 1 && p.on[ms[0].code()]:
		cmd.Kind = LaserOn
		cmd.Code = ms[0].source()
		return cmd, nil

	case !extra && len(gs) == 0 && len(axes) == 0 && !cmd.HasFeed && !cmd.HasPower && len(ms) == 1 && p.off[ms[0].code()]:
		cmd.Kind = LaserOff
		cmd.Code = ms[0].source()
		return cmd, nil
	}

	if p.opts.Strict && !setupOnly(gs, ms) {
		return Command{}, fmt.Errorf("%w: %q", ErrUnsupportedCommand, strings.TrimSpace(raw))
	}
	p.sideEffects(gs, axes)
	return other, nil
}

func isMotion(w word) bool {
	return w.val == 0 || w.val == 1
}

func motionKind(w word) Kind {
	if w.val == 0 {
		return RapidMove
	}
	return LinearMove
}

func setupOnly(gs, ms []word) bool {
	if len(gs)+len(ms) == 0 {
		return false
	}
	for _, w := range append(gs, ms...) {
		if !setupCodes[w.code()] {
			return false
		}
	}
	return true
}

func axisOf(letter byte) (Axis, int) {
	switch letter {
	case 'X':
		return AxisX, 0
	case 'Y':
		return AxisY, 1
	default:
		return AxisZ, 2
	}
}

func setComponent(v *math.Vec3, i int, f float64) {
	switch i {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	default:
		v.Z = f
	}
}

// move resolves the axis words of a motion line against the modal state.
func (p *parser) move(cmd *Command, axes []word) {
	for _, w := range axes {
		a, i := axisOf(w.letter)
		v := w.val
		if p.relative && p.known.Has(a) {
			v += p.pos.Component(i)
		}
		setComponent(&p.pos, i, v)
		p.known |= a
		cmd.Words |= a
	}
	cmd.Target = p.pos
	cmd.Axes = p.known
	cmd.Relative = p.relative
}

// sideEffects tracks distance mode and position changes from setup lines.
func (p *parser) sideEffects(gs, axes []word) {
	for _, g := range gs {
		switch g.code() {
		case "G90":
			p.relative = false
		case "G91":
			p.relative = true
		case "G28":
			p.pos, p.known = math.Vec3{}, AxesXYZ
		case "G92":
			for _, w := range axes {
				a, i := axisOf(w.letter)
				setComponent(&p.pos, i, w.val)
				p.known |= a
			}
		case "G0", "G1":
			p.motion = motionKind(g)
		}
	}
}
