package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Merger concatenates PDF documents and checks individual documents for
// parseability before they are admitted to a merge.
type Merger interface {
	Validate(doc []byte) error
	Merge(docs [][]byte) ([]byte, error)
}

// PDFCPUMerger implements Merger on top of pdfcpu.
type PDFCPUMerger struct {
	conf *pdfmodel.Configuration
}

func NewPDFCPUMerger() *PDFCPUMerger {
	api.DisableConfigDir()
	return &PDFCPUMerger{conf: pdfmodel.NewDefaultConfiguration()}
}

func (m *PDFCPUMerger) Validate(doc []byte) error {
	return api.Validate(bytes.NewReader(doc), m.conf)
}

func (m *PDFCPUMerger) Merge(docs [][]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("merge: no documents")
	}
	if len(docs) == 1 {
		return docs[0], nil
	}

	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, m.conf); err != nil {
		return nil, fmt.Errorf("merge %d documents: %w", len(docs), err)
	}
	return out.Bytes(), nil
}
