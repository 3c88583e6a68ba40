package dump

import (
	"go.trai.ch/ibmetrics/internal/core/domain"
	"go.trai.ch/ibmetrics/internal/core/ports"
)

// SetDecoderFactory replaces how r builds a decoder for a column layout.
func (r *Reader) SetDecoderFactory(f func(columns []domain.Field) ports.LineDecoder) {
	r.newDecoder = f
}
