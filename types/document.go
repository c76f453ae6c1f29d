package types

import (
	"encoding/base64"
	"fmt"
)

// PageImage is an embedded raster image pulled out of a PDF page
type PageImage struct {
	Data     []byte // Encoded image bytes as stored in the document
	Format   string // Encoding tag, e.g. "jpeg" or "png"
	Size     int    // len(Data)
	PageNum  int    // Page the occurrence was found on (1-based)
	ObjectNr int    // PDF object number of the image stream
}

// MIMEType returns the media type used when the image is sent to a model
func (img PageImage) MIMEType() string {
	return "image/" + img.Format
}

// DataURL encodes the image as a data: URL
func (img PageImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIMEType(), base64.StdEncoding.EncodeToString(img.Data))
}

// ExtractionResult holds the text and ranked diagram candidates of a document
type ExtractionResult struct {
	Text      string      // Page texts concatenated in page order
	Images    []PageImage // Sorted by Size descending, bounded by MaxCandidates
	PageCount int
}

// Selection is the outcome of picking the main diagram among candidates
type Selection struct {
	Image    *PageImage // nil when there was nothing to select
	Index    int        // Index into the candidate list, -1 when Image is nil
	Fallback bool       // True when the size-based fallback was used
	Err      error      // Absorbed classification failure, if any
}

// DocumentServiceConfig contains configuration options for PDF processing
type DocumentServiceConfig struct {
	MinImageBytes int // Images at or below this encoded size are dropped
	MaxCandidates int // Maximum number of candidates kept after ranking
}

// DocumentSummary is what the CLI prints for an extracted document
type DocumentSummary struct {
	FileName      string         `json:"file_name"`
	PageCount     int            `json:"page_count"`
	TextLength    int            `json:"text_length"`
	Candidates    []ImageSummary `json:"candidates"`
	SelectedIndex int            `json:"selected_index"`
	Fallback      bool           `json:"fallback"`
	DiagramPath   string         `json:"diagram_path,omitempty"`
}

type ImageSummary struct {
	Format  string `json:"format"`
	Size    int    `json:"size"`
	PageNum int    `json:"page_num"`
}

// NewDocumentSummary describes an extraction and the diagram picked from it.
func NewDocumentSummary(fileName string, extraction *ExtractionResult, selection Selection) DocumentSummary {
	summary := DocumentSummary{
		FileName:      fileName,
		PageCount:     extraction.PageCount,
		TextLength:    len([]rune(extraction.Text)),
		Candidates:    make([]ImageSummary, 0, len(extraction.Images)),
		SelectedIndex: selection.Index,
		Fallback:      selection.Fallback,
	}
	for _, img := range extraction.Images {
		summary.Candidates = append(summary.Candidates, ImageSummary{
			Format:  img.Format,
			Size:    img.Size,
			PageNum: img.PageNum,
		})
	}
	return summary
}
