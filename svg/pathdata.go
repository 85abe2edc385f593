package svg

import (
	"fmt"
	"strconv"
)

// pathScanner tokenizes SVG path data.
type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) skipSeparators() {
	for sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *pathScanner) done() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

// command returns the next command letter, if the next token is one.
func (sc *pathScanner) command() (byte, bool) {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return 0, false
	}
	c := sc.s[sc.pos]
	if isCommand(c) {
		sc.pos++
		return c, true
	}
	return 0, false
}

// atNumber reports whether the next token starts a number.
func (sc *pathScanner) atNumber() bool {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false
	}
	c := sc.s[sc.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (sc *pathScanner) number() (float64, error) {
	sc.skipSeparators()
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '+' || sc.s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
		i++
		digits++
	}
	if i < len(sc.s) && sc.s[i] == '.' {
		i++
		for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	if i < len(sc.s) && (sc.s[i] == 'e' || sc.s[i] == 'E') {
		j := i + 1
		if j < len(sc.s) && (sc.s[j] == '+' || sc.s[j] == '-') {
			j++
		}
		if j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
			for j < len(sc.s) && sc.s[j] >= '0' && sc.s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	sc.pos = i
	return strconv.ParseFloat(sc.s[start:i], 64)
}

// flag reads an arc flag, which may be written without a separator.
func (sc *pathScanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.pos >= len(sc.s) {
		return false, fmt.Errorf("expected flag at end of data")
	}
	switch sc.s[sc.pos] {
	case '0':
		sc.pos++
		return false, nil
	case '1':
		sc.pos++
		return true, nil
	}
	return false, fmt.Errorf("expected flag at offset %d", sc.pos)
}

func (sc *pathScanner) numbers(dst []float64) error {
	for i := range dst {
		v, err := sc.number()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's',
		'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

// parsePathData converts path data into an absolute Path.
//
// On malformed data the segments before the error are kept and returned
// along with the error, so callers may choose to render the valid prefix.
func parsePathData(d string) (*Path, error) {
	p := &Path{}
	sc := &pathScanner{s: d}

	var (
		cmd            byte
		cx, cy         float64 // current point
		sx, sy         float64 // subpath start
		lastCtrlX      float64
		lastCtrlY      float64
		lastCmd        byte
		args           [7]float64
		haveCurrentPos bool
	)

	for !sc.done() {
		if c, ok := sc.command(); ok {
			cmd = c
		} else if cmd == 0 {
			return p, fmt.Errorf("path data must start with a moveto")
		} else if !sc.atNumber() || cmd == 'Z' || cmd == 'z' {
			return p, fmt.Errorf("unexpected character %q at offset %d", sc.s[sc.pos], sc.pos)
		}
		if !haveCurrentPos && cmd != 'M' && cmd != 'm' {
			return p, fmt.Errorf("path data must start with a moveto")
		}

		rel := cmd >= 'a'
		ox, oy := 0.0, 0.0
		if rel {
			ox, oy = cx, cy
		}

		switch cmd {
		case 'M', 'm':
			if err := sc.numbers(args[:2]); err != nil {
				return p, err
			}
			cx, cy = ox+args[0], oy+args[1]
			sx, sy = cx, cy
			p.MoveTo(cx, cy)
			haveCurrentPos = true
			// Subsequent pairs are implicit linetos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
			lastCmd = 'M'
			continue
		case 'L', 'l':
			if err := sc.numbers(args[:2]); err != nil {
				return p, err
			}
			cx, cy = ox+args[0], oy+args[1]
			p.LineTo(cx, cy)
		case 'H', 'h':
			if err := sc.numbers(args[:1]); err != nil {
				return p, err
			}
			cx = ox + args[0]
			p.LineTo(cx, cy)
		case 'V', 'v':
			if err := sc.numbers(args[:1]); err != nil {
				return p, err
			}
			cy = oy + args[0]
			p.LineTo(cx, cy)
		case 'C', 'c':
			if err := sc.numbers(args[:6]); err != nil {
				return p, err
			}
			x1, y1 := ox+args[0], oy+args[1]
			lastCtrlX, lastCtrlY = ox+args[2], oy+args[3]
			cx, cy = ox+args[4], oy+args[5]
			p.CubicTo(x1, y1, lastCtrlX, lastCtrlY, cx, cy)
		case 'S', 's':
			if err := sc.numbers(args[:4]); err != nil {
				return p, err
			}
			x1, y1 := cx, cy
			if lastCmd == 'C' || lastCmd == 'S' {
				x1, y1 = 2*cx-lastCtrlX, 2*cy-lastCtrlY
			}
			lastCtrlX, lastCtrlY = ox+args[0], oy+args[1]
			cx, cy = ox+args[2], oy+args[3]
			p.CubicTo(x1, y1, lastCtrlX, lastCtrlY, cx, cy)
		case 'Q', 'q':
			if err := sc.numbers(args[:4]); err != nil {
				return p, err
			}
			lastCtrlX, lastCtrlY = ox+args[0], oy+args[1]
			cx, cy = ox+args[2], oy+args[3]
			p.QuadTo(lastCtrlX, lastCtrlY, cx, cy)
		case 'T', 't':
			if err := sc.numbers(args[:2]); err != nil {
				return p, err
			}
			if lastCmd == 'Q' || lastCmd == 'T' {
				lastCtrlX, lastCtrlY = 2*cx-lastCtrlX, 2*cy-lastCtrlY
			} else {
				lastCtrlX, lastCtrlY = cx, cy
			}
			cx, cy = ox+args[0], oy+args[1]
			p.QuadTo(lastCtrlX, lastCtrlY, cx, cy)
		case 'A', 'a':
			if err := sc.numbers(args[:3]); err != nil {
				return p, err
			}
			large, err := sc.flag()
			if err != nil {
				return p, err
			}
			sweep, err := sc.flag()
			if err != nil {
				return p, err
			}
			if err := sc.numbers(args[3:5]); err != nil {
				return p, err
			}
			x, y := ox+args[3], oy+args[4]
			p.arcTo(cx, cy, args[0], args[1], args[2], large, sweep, x, y)
			cx, cy = x, y
		case 'Z', 'z':
			p.Close()
			cx, cy = sx, sy
		}
		lastCmd = upper(cmd)
	}
	return p, nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
