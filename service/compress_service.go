package service

import (
	"propsight/compression"
)

type CompressRequest struct {
	Text             string  `json:"text" validate:"required"`
	MaxLength        int     `json:"max_length" validate:"omitempty,gt=0"`
	CompressionRatio float64 `json:"compression_ratio" validate:"omitempty,gt=0,lte=1"`
	IncludeKeywords  bool    `json:"include_keywords"`
}

type CompressResponse struct {
	Text     string            `json:"text"`
	Keywords string            `json:"keywords,omitempty"`
	Stats    compression.Stats `json:"stats"`
}

// CompressService exposes the compression pipeline on its own, without
// scraping or analysis.
type CompressService struct {
	compressor *compression.Compressor
	words      *compression.WordDeduper
}

func NewCompressService(compressor *compression.Compressor) *CompressService {
	return &CompressService{
		compressor: compressor,
		words:      compression.NewWordDeduper(compression.DefaultStopWords()),
	}
}

func (s *CompressService) Compress(req CompressRequest) *CompressResponse {
	text, stats := s.compressor.CompressWithStats(req.Text, req.MaxLength, req.CompressionRatio)
	observeCompression(stats)

	resp := &CompressResponse{Text: text, Stats: stats}
	if req.IncludeKeywords {
		// most frequent first
		resp.Keywords = s.words.RemoveDuplicateWords(req.Text, false)
	}
	return resp
}
