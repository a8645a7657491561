package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExtractBytes_Plain(t *testing.T) {
	e := NewExtractor()
	out, err := e.ExtractBytes([]byte("hello world"), ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello world" {
		t.Errorf("got %q", out)
	}
}

func TestExtractBytes_InvalidUTF8(t *testing.T) {
	e := NewExtractor()
	out, err := e.ExtractBytes([]byte{'o', 'k', 0xff, 0xfe}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "ok") {
		t.Errorf("got %q", out)
	}
	if strings.ContainsRune(out, 0xff) {
		t.Error("invalid bytes should be replaced")
	}
}

func TestExtractBytes_UnknownExtension(t *testing.T) {
	e := NewExtractor()
	out, err := e.ExtractBytes([]byte("raw content"), ".log")
	if err != nil {
		t.Fatal(err)
	}
	if out != "raw content" {
		t.Errorf("unknown extension should fall back to plain text, got %q", out)
	}
}

func TestExtractBytes_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`<w:document><w:body><w:p w:rsidR="00A"><w:r><w:t>First run.</w:t></w:r>` +
		`<w:r><w:t xml:space="preserve">Second run.</w:t></w:r></w:p></w:body></w:document>`))
	zw.Close()

	e := NewExtractor()
	out, err := e.ExtractBytes(buf.Bytes(), ".docx")
	if err != nil {
		t.Fatal(err)
	}
	if out != "First run. Second run." {
		t.Errorf("got %q", out)
	}
}

func TestExtractBytes_DOCX_MissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("unrelated.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	e := NewExtractor()
	if _, err := e.ExtractBytes(buf.Bytes(), ".docx"); err == nil {
		t.Error("expected error for missing document.xml")
	}
}

func TestExtractBytes_DOCX_NotZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Error("expected error for non-zip content")
	}
}

func TestExtractBytes_Excel(t *testing.T) {
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "name")
	f.SetCellValue("Sheet1", "B1", "value")
	f.SetCellValue("Sheet1", "A2", "alpha")
	f.SetCellValue("Sheet1", "B2", 42)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	out, err := e.ExtractBytes(buf.Bytes(), ".xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "name\tvalue") || !strings.Contains(out, "alpha\t42") {
		t.Errorf("got %q", out)
	}
}

func TestExtractBytes_PDF_Invalid(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("definitely not a pdf"), ".pdf"); err == nil {
		t.Error("expected error for invalid PDF")
	}
}

func TestExtract_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("# heading\nbody"), 0644); err != nil {
		t.Fatal(err)
	}
	e := NewExtractor()
	out, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "heading") {
		t.Errorf("got %q", out)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
