package repair

import (
	"strings"
	"testing"

	"github.com/go-pdfkit/pdfcore/objects"
)

func TestScanRecoversObjectsAndTrailer(t *testing.T) {
	data := []byte("%PDF-1.7\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n" +
		"trailer\n<< /Root 1 0 R /Size 3 >>\n" +
		"startxref\n0\n%%EOF")

	table, trailer, err := Scan(data)
	if err != nil {
		t.Fatal(err)
	}
	if !table.Has(1) || !table.Has(2) {
		t.Fatal("expected both objects to be recorded")
	}
	if trailer["Root"] != (objects.Reference{Number: 1, Generation: 0}) {
		t.Errorf("unexpected Root in recovered trailer: %v", trailer["Root"])
	}
}

func TestScanPrefersLatestDuplicate(t *testing.T) {
	data := []byte("1 0 obj\n<< /V 1 >>\nendobj\n" +
		"1 0 obj\n<< /V 2 >>\nendobj\n" +
		"trailer\n<< /Root 1 0 R /Size 2 >>\n")

	table, _, err := Scan(data)
	if err != nil {
		t.Fatal(err)
	}
	entry := table.Get(1)
	secondOffset := int64(strings.LastIndex(string(data), "1 0 obj"))
	if entry.Offset != secondOffset {
		t.Errorf("expected the later declaration to win: got offset %d want %d", entry.Offset, secondOffset)
	}
}

func TestScanNoTrailerFails(t *testing.T) {
	data := []byte("1 0 obj\n<< /V 1 >>\nendobj\n")
	if _, _, err := Scan(data); err == nil {
		t.Fatal("expected an error when no trailer can be recovered")
	}
}
