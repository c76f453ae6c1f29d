package service

import (
	"bytes"
	"fmt"
	"strings"
)

// testPage is one page of a generated test document.
type testPage struct {
	text    string
	images  []int // indexes into testPDF.images drawn on the page
	altFont bool  // /F1 is a font whose encoding maps "a" to "z"
}

// testPDF builds small but well-formed PDFs: Helvetica text plus DCT
// encoded image XObjects whose payload is a JPEG header padded to size.
// Every page names its font /F1.
type testPDF struct {
	pages  []testPage
	images []int // payload size of each image object
}

func jpegPayload(size int, seed byte) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	for i := 4; i < size; i++ {
		data[i] = seed + byte(i%251)
	}
	return data
}

func (p testPDF) bytes() []byte {
	var buf bytes.Buffer
	var offsets []int

	// Object numbers: 1 catalog, 2 pages, 3 and 4 fonts, then images, then a
	// page and its content stream per page.
	firstImage := 5
	firstPage := firstImage + len(p.images)
	nObjects := firstPage - 1 + 2*len(p.pages)

	obj := func(body func()) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", len(offsets))
		body()
		buf.WriteString("\nendobj\n")
	}
	stream := func(dict string, data []byte) {
		fmt.Fprintf(&buf, "<< %s /Length %d >>\nstream\n", dict, len(data))
		buf.Write(data)
		buf.WriteString("\nendstream")
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	kids := make([]string, len(p.pages))
	for i := range p.pages {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+2*i)
	}
	obj(func() { buf.WriteString("<< /Type /Catalog /Pages 2 0 R >>") })
	obj(func() {
		fmt.Fprintf(&buf, "<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(p.pages))
	})
	obj(func() {
		buf.WriteString("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	})
	obj(func() {
		buf.WriteString("<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding << /Type /Encoding /Differences [97 /z] >> >>")
	})

	for i, size := range p.images {
		obj(func() {
			stream("/Type /XObject /Subtype /Image /Width 8 /Height 8 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /DCTDecode",
				jpegPayload(size, byte(i*17)))
		})
	}

	for i, page := range p.pages {
		var xobjects, draws strings.Builder
		for j, img := range page.images {
			fmt.Fprintf(&xobjects, "/Im%d %d 0 R ", j, firstImage+img)
			fmt.Fprintf(&draws, "q 100 0 0 100 72 %d cm /Im%d Do Q\n", 500-j*110, j)
		}
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET\n%s", page.text, draws.String())
		font := 3
		if page.altFont {
			font = 4
		}

		obj(func() {
			fmt.Fprintf(&buf, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> /XObject << %s>> >> /Contents %d 0 R >>",
				font, xobjects.String(), firstPage+2*i+1)
		})
		obj(func() { stream("", []byte(content)) })
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", nObjects+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", nObjects+1, xref)
	return buf.Bytes()
}
