package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tieubaoca/prism-be/logger"
	"github.com/tieubaoca/prism-be/types"
)

func init() {
	// pdfcpu would otherwise create a config directory under $HOME on first use
	api.DisableConfigDir()
}

// PDFService pulls text and diagram candidates out of PDF documents.
// It keeps no per-document state and is safe for concurrent use.
type PDFService struct {
	minImageBytes int // Images at or below this encoded size are treated as icons
	maxCandidates int // Number of candidates kept after ranking
	log           *logger.Logger
}

// extractImagesRaw is replaced in tests.
var extractImagesRaw = api.ExtractImagesRaw

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MinImageBytes: 10000,
	MaxCandidates: 5,
}

// NewPDFService creates a new PDF service. Zero values in config fall back to
// DefaultDocumentServiceConfig.
func NewPDFService(config types.DocumentServiceConfig, log *logger.Logger) *PDFService {
	if config.MinImageBytes <= 0 {
		config.MinImageBytes = DefaultDocumentServiceConfig.MinImageBytes
	}
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = DefaultDocumentServiceConfig.MaxCandidates
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PDFService{
		minImageBytes: config.MinImageBytes,
		maxCandidates: config.MaxCandidates,
		log:           log.With("service", "PDFService"),
	}
}

// ExtractDocument reads the text of every page in order and returns the
// largest embedded raster images as diagram candidates.
// Parameters:
//   - data: Raw PDF bytes
//
// Returns:
//   - *types.ExtractionResult: Text plus at most maxCandidates images, largest first
//   - error: DocumentParseError if data is not a readable PDF
func (s *PDFService) ExtractDocument(ctx context.Context, data []byte) (*types.ExtractionResult, error) {
	text, pageCount, err := s.extractText(ctx, data)
	if err != nil {
		return nil, err
	}

	images, err := s.extractImages(data)
	if err != nil {
		// The text layer was readable, so the document is served without
		// diagram candidates rather than rejected.
		s.log.Warn("Failed to extract embedded images", "error", err)
		images = nil
	}

	return &types.ExtractionResult{
		Text:      text,
		Images:    RankCandidates(images, s.minImageBytes, s.maxCandidates),
		PageCount: pageCount,
	}, nil
}

// RankCandidates drops images of minBytes or less, orders the rest by size
// descending and keeps the first max. Images of equal size keep their
// document order.
func RankCandidates(images []types.PageImage, minBytes, max int) []types.PageImage {
	out := make([]types.PageImage, 0, len(images))
	for _, img := range images {
		if img.Size > minBytes {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size > out[j].Size
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}

func (s *PDFService) extractText(ctx context.Context, data []byte) (text string, pageCount int, err error) {
	// ledongthuc/pdf panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			err = types.DocumentParseError("malformed PDF", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, types.DocumentParseError("failed to open PDF", err)
	}

	pageCount = reader.NumPage()
	s.log.Debug("Opened PDF", "pages", pageCount, "bytes", len(data))

	var sb strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		// Font resource names are page scoped, /F15 may be another font on the
		// next page, so each page resolves its own fonts.
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			s.log.Warn("Failed to extract text from page", "page", pageNum, "error", err)
			continue
		}
		sb.WriteString(cleanText(pageText))
	}
	return sb.String(), pageCount, nil
}

// extractImages lists every image occurrence in document order, by page then
// object number. An image object reused on several pages is reported once per
// page.
func (s *PDFService) extractImages(data []byte) (images []types.PageImage, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Image extraction panicked", "panic", r)
			images, err = nil, fmt.Errorf("malformed image stream: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := extractImagesRaw(bytes.NewReader(data), nil, conf)
	if err != nil {
		return nil, err
	}

	for _, pageImages := range pages {
		objNrs := make([]int, 0, len(pageImages))
		for objNr := range pageImages {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := pageImages[objNr]
			raw, err := io.ReadAll(img)
			if err != nil {
				s.log.Warn("Failed to read image stream", "page", img.PageNr, "object", objNr, "error", err)
				continue
			}
			images = append(images, types.PageImage{
				Data:     raw,
				Format:   normalizeImageFormat(img.FileType),
				Size:     len(raw),
				PageNum:  img.PageNr,
				ObjectNr: objNr,
			})
		}
	}

	// pdfcpu does not return pages in order
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].PageNum != images[j].PageNum {
			return images[i].PageNum < images[j].PageNum
		}
		return images[i].ObjectNr < images[j].ObjectNr
	})
	return images, nil
}

func normalizeImageFormat(fileType string) string {
	switch ft := strings.ToLower(strings.TrimPrefix(fileType, ".")); ft {
	case "jpg", "jpeg":
		return "jpeg"
	case "tif", "tiff":
		return "tiff"
	case "":
		return "png"
	default:
		return ft
	}
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "", // Null character
		"\ufffd": "", // Unicode replacement character
		"\u001b": "", // Escape character
		"\r":     "", // Carriage return
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return cleaned
}
