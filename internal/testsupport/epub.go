package testsupport

import (
	"archive/zip"
	"fmt"
	"os"
	"testing"
)

// EPUBChapter describes one chapter document for a generated test book.
type EPUBChapter struct {
	ID      string
	Heading string // omitted from the document when empty
	Body    string
}

// WriteEPUB assembles a minimal but structurally valid EPUB container with
// the given chapters in spine order.
func WriteEPUB(t testing.TB, path string, chapters []EPUBChapter) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create epub %s: %v", path, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	writeEntry(t, zw, "mimetype", "application/epub+zip")
	writeEntry(t, zw, "META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	manifest := ""
	spine := ""
	for _, ch := range chapters {
		manifest += fmt.Sprintf("<item id=%q href=%q media-type=\"application/xhtml+xml\"/>\n", ch.ID, ch.ID+".xhtml")
		spine += fmt.Sprintf("<itemref idref=%q/>\n", ch.ID)
	}
	opf := fmt.Sprintf(`<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata/>
  <manifest>
%s  </manifest>
  <spine>
%s  </spine>
</package>`, manifest, spine)
	writeEntry(t, zw, "OEBPS/content.opf", opf)

	for _, ch := range chapters {
		headingMarkup := ""
		if ch.Heading != "" {
			headingMarkup = "<h1>" + ch.Heading + "</h1>"
		}
		doc := fmt.Sprintf(`<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body>%s<p>%s</p></body>
</html>`, ch.ID, headingMarkup, ch.Body)
		writeEntry(t, zw, "OEBPS/"+ch.ID+".xhtml", doc)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("finalize epub %s: %v", path, err)
	}
}

func writeEntry(t testing.TB, zw *zip.Writer, name, contents string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("create zip entry %s: %v", name, err)
	}
	if _, err := w.Write([]byte(contents)); err != nil {
		t.Fatalf("write zip entry %s: %v", name, err)
	}
}
