package units

import (
	"strings"

	"github.com/goliatone/go-formunion/pkg/field"
)

const textPreviewLength = 40

// PlainText is a block of static text placed between fields. It contributes
// no inputs, initial values, cleaners or report rows.
type PlainText struct {
	text string
}

// NewPlainText builds a static text block.
func NewPlainText(def Definition) (*PlainText, error) {
	return &PlainText{text: def.Text}, nil
}

// Text returns the block's content.
func (p *PlainText) Text() string { return p.text }

// Type returns the type tag.
func (p *PlainText) Type() string { return TypePlainText }

// String returns the start of the text.
func (p *PlainText) String() string {
	runes := []rune(strings.TrimSpace(p.text))
	if len(runes) > textPreviewLength {
		runes = runes[:textPreviewLength]
	}
	return string(runes)
}

// Capabilities implements field.Unit.
func (p *PlainText) Capabilities() field.Capabilities {
	return field.Capabilities{}
}
