// Package fits reads the primary header of a FITS file. It understands just
// enough of the format to pull keyword/value cards out of the header blocks;
// data units, extensions and tile compression are not handled.
package fits

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// blockSize is the size of a FITS header block.
	blockSize = 2880

	// cardSize is the size of a single header card.
	cardSize = 80

	cardsPerBlock = blockSize / cardSize
)

// Header holds the keyword/value cards of a primary FITS header in the
// order they were read.
type Header struct {
	keys   []string
	values map[string]string
}

// Get returns the value for key, or the empty string when the key is not
// present.
func (h *Header) Get(key string) string {
	return h.values[key]
}

func (h *Header) Has(key string) bool {
	_, ok := h.values[key]
	return ok
}

// Keys returns the header keywords in the order they appeared.
func (h *Header) Keys() []string {
	return h.keys
}

// Map returns the header as a plain keyword to value mapping.
func (h *Header) Map() map[string]string {
	m := make(map[string]string, len(h.values))
	for k, v := range h.values {
		m[k] = v
	}
	return m
}

// ReadHeaderFile reads the primary header of the named FITS file.
func ReadHeaderFile(name string) (*Header, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open FITS file %s", name)
	}
	defer f.Close()

	header, err := ReadHeader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read header from %s", name)
	}

	return header, nil
}

// ReadHeader reads a primary header from r. Cards are consumed in
// blockSize chunks until the END card is seen. A stream that runs out
// before END is malformed.
func ReadHeader(r io.Reader) (*Header, error) {
	header := &Header{values: make(map[string]string)}
	block := make([]byte, blockSize)

	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, errors.New("truncated header: no END card found")
			}
			return nil, err
		}

		for i := 0; i < cardsPerBlock; i++ {
			card := string(block[i*cardSize : (i+1)*cardSize])
			keyword := strings.TrimSpace(card[:8])

			switch keyword {
			case "END":
				return header, nil
			case "", "COMMENT", "HISTORY":
				continue
			}

			// Value cards have "= " in columns 9-10. Anything else
			// (commentary with a non-standard keyword) is skipped.
			if card[8:10] != "= " {
				continue
			}

			header.keys = append(header.keys, keyword)
			header.values[keyword] = parseValue(card[10:])
		}
	}
}

// parseValue extracts the value portion of a card, dropping any trailing
// comment. Quoted strings use FITS conventions: single quotes with ''
// escaping an embedded quote, trailing spaces not significant.
func parseValue(s string) string {
	s = strings.TrimLeft(s, " ")

	if strings.HasPrefix(s, "'") {
		var b strings.Builder
		rest := s[1:]
		for {
			idx := strings.IndexByte(rest, '\'')
			if idx < 0 {
				// Unterminated string, take what is there.
				b.WriteString(rest)
				break
			}
			b.WriteString(rest[:idx])
			if idx+1 < len(rest) && rest[idx+1] == '\'' {
				b.WriteByte('\'')
				rest = rest[idx+2:]
				continue
			}
			break
		}
		return strings.TrimRight(b.String(), " ")
	}

	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
