package faqrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/faq-matcher/internal/domain/faq"
	"github.com/yanqian/faq-matcher/internal/infra/blob"
)

type faqDocument struct {
	FAQs []faq.Entry `json:"faqs" yaml:"faqs"`
}

// FileSource reads a YAML or JSON FAQ document through a blob reader, so the
// same file can live on disk or in a bucket.
type FileSource struct {
	reader blob.Reader
	key    string
}

// NewFileSource constructs the source.
func NewFileSource(reader blob.Reader, key string) *FileSource {
	return &FileSource{reader: reader, key: key}
}

// Name implements faq.Source.
func (s *FileSource) Name() string {
	return s.reader.Location(s.key)
}

// Load implements faq.Source.
func (s *FileSource) Load(ctx context.Context) ([]faq.Entry, error) {
	data, err := s.reader.Read(ctx, s.key)
	if err != nil {
		return nil, err
	}
	return decodeFAQs(s.key, data)
}

func decodeFAQs(key string, data []byte) ([]faq.Entry, error) {
	var doc faqDocument
	switch strings.ToLower(path.Ext(key)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode faq json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode faq yaml: %w", err)
		}
	}
	return doc.FAQs, nil
}

var _ faq.Source = (*FileSource)(nil)
