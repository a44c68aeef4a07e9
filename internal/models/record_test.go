package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFileRecord_Decode(t *testing.T) {
	raw := `{
		"nomor_berkas": 123,
		"nama_pemohon": " La Ode Hasan ",
		"jenis_layanan": "Balik Nama",
		"kekurangan_berkas": "KTP; KK",
		"status_berkas": "Proses",
		"tanggal_permohonan": "2024-03-01T16:00:00.000Z",
		"tanggal_selesai": null,
		"tahun_permohonan": 2024
	}`
	var rec FileRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.FileNumber != "123" {
		t.Errorf("FileNumber = %q, want 123", rec.FileNumber)
	}
	if rec.ApplicantName != "La Ode Hasan" {
		t.Errorf("ApplicantName = %q", rec.ApplicantName)
	}
	if rec.ApplicationYear != "2024" {
		t.Errorf("ApplicationYear = %q", rec.ApplicationYear)
	}
	if !rec.ApplicationDate.Valid || rec.ApplicationDate.Time.Day() != 1 {
		t.Errorf("ApplicationDate = %+v", rec.ApplicationDate)
	}
	if !rec.CompletionDate.IsZero() {
		t.Errorf("CompletionDate should be zero, got %+v", rec.CompletionDate)
	}
	c := rec.Completeness()
	if c.Complete {
		t.Error("record with missing documents reported complete")
	}
	if diff := cmp.Diff([]string{"KTP", "KK"}, c.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestFileRecord_MissingFieldsAreComplete(t *testing.T) {
	for _, raw := range []string{
		`{"nomor_berkas":"00123"}`,
		`{"nomor_berkas":"00123","kekurangan_berkas":""}`,
		`{"nomor_berkas":"00123","kekurangan_berkas":null}`,
		`{"nomor_berkas":"00123","kekurangan_berkas":[]}`,
	} {
		var rec FileRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if !rec.Completeness().Complete {
			t.Errorf("%s: expected complete", raw)
		}
	}
}

func TestMissingDocuments_ArrayAndMarshal(t *testing.T) {
	var m MissingDocuments
	if err := json.Unmarshal([]byte(`["  A  ", "", "B"]`), &m); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, m.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	out, err := json.Marshal(MissingDocuments{})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "[]" {
		t.Errorf("empty marshals to %s, want []", out)
	}
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-31":               time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		"31/01/2024":               time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		"5/2/2024":                 time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		"2024-01-31T00:00:00.000Z": time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		d := ParseDate(in)
		if !d.Valid || !d.Time.Equal(want) {
			t.Errorf("ParseDate(%q) = %+v, want %v", in, d, want)
		}
	}

	d := ParseDate("menunggu")
	if d.Valid || d.String() != "menunggu" {
		t.Errorf("unparseable date should keep raw text, got %+v", d)
	}
}

func TestYear_MarshalNull(t *testing.T) {
	out, _ := json.Marshal(struct {
		Y Year `json:"y"`
	}{})
	if string(out) != `{"y":null}` {
		t.Errorf("got %s", out)
	}
}
