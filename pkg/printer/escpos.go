package printer

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

type Align byte

const (
	Left   Align = 0
	Center Align = 1
	Right  Align = 2
)

// Paper widths in characters for font A
const (
	Width58mm = 32
	Width80mm = 48
)

// Ticket accumulates an ESC/POS byte stream. Text is folded to ASCII since
// most thermal printers ship with a single-byte code page.
type Ticket struct {
	buf   bytes.Buffer
	width int
}

func NewTicket(width int) *Ticket {
	if width <= 0 {
		width = Width58mm
	}
	t := &Ticket{width: width}
	t.buf.Write([]byte{esc, '@'})
	return t
}

func (t *Ticket) Width() int { return t.width }

func (t *Ticket) Align(a Align) *Ticket {
	t.buf.Write([]byte{esc, 'a', byte(a)})
	return t
}

func (t *Ticket) Bold(on bool) *Ticket {
	var b byte
	if on {
		b = 1
	}
	t.buf.Write([]byte{esc, 'E', b})
	return t
}

// Large toggles double width and height
func (t *Ticket) Large(on bool) *Ticket {
	var size byte
	if on {
		size = 0x11
	}
	t.buf.Write([]byte{gs, '!', size})
	return t
}

func (t *Ticket) Line(s string) *Ticket {
	t.buf.WriteString(Fold(s))
	t.buf.WriteByte(lf)
	return t
}

func (t *Ticket) Feed(n int) *Ticket {
	for i := 0; i < n; i++ {
		t.buf.WriteByte(lf)
	}
	return t
}

func (t *Ticket) Rule() *Ticket {
	t.buf.WriteString(strings.Repeat("-", t.width))
	t.buf.WriteByte(lf)
	return t
}

// Columns prints left and right on one line, truncating left so right
// always fits.
func (t *Ticket) Columns(left, right string) *Ticket {
	left, right = Fold(left), Fold(right)
	room := t.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	left = truncate(left, room)
	pad := t.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	t.buf.WriteString(left)
	t.buf.WriteString(strings.Repeat(" ", pad))
	t.buf.WriteString(right)
	t.buf.WriteByte(lf)
	return t
}

// Cut feeds past the tear bar and performs a partial cut.
func (t *Ticket) Cut() *Ticket {
	t.Feed(3)
	t.buf.Write([]byte{gs, 'V', 0x01})
	return t
}

func (t *Ticket) Bytes() []byte {
	return t.buf.Bytes()
}

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics ("Pão de queijo" -> "Pao de queijo") and replaces
// whatever is still outside ASCII with '?'.
func Fold(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, folded)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
