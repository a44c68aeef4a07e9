// Package models defines the file record returned by the upstream record
// service and the loosely typed scalars it is made of.
package models

import (
	"bytes"
	"encoding/json"

	"github.com/starford/sikabut/internal/checklist"
)

// FileRecord is one row of the office spreadsheet as served by the upstream
// script. It is read-only here.
type FileRecord struct {
	FileNumber       Text             `json:"nomor_berkas"`
	ApplicantName    Text             `json:"nama_pemohon"`
	ServiceType      Text             `json:"jenis_layanan"`
	MissingDocuments MissingDocuments `json:"kekurangan_berkas"`
	FileStatus       Text             `json:"status_berkas"`
	ApplicationDate  Date             `json:"tanggal_permohonan"`
	CompletionDate   Date             `json:"tanggal_selesai"`
	ApplicationYear  Year             `json:"tahun_permohonan"`
}

// Completeness derives the checklist state of the record.
func (r FileRecord) Completeness() checklist.Completeness {
	return r.MissingDocuments.Completeness()
}

// MissingDocuments is the tagged union Empty | List of outstanding documents.
// The upstream may send null, a delimited string or an array; all of them
// are normalized once, on decode.
type MissingDocuments struct {
	items []string
}

// NewMissingDocuments normalizes v with checklist.Derive.
func NewMissingDocuments(v any) MissingDocuments {
	c := checklist.Derive(v)
	if c.Complete {
		return MissingDocuments{}
	}
	return MissingDocuments{items: c.Items}
}

// Empty reports whether nothing is missing.
func (m MissingDocuments) Empty() bool { return len(m.items) == 0 }

// Items returns a copy of the outstanding documents, in upstream order.
func (m MissingDocuments) Items() []string {
	out := make([]string, len(m.items))
	copy(out, m.items)
	return out
}

// Completeness returns the derived checklist.
func (m MissingDocuments) Completeness() checklist.Completeness {
	return checklist.Completeness{Complete: m.Empty(), Items: m.Items()}
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *MissingDocuments) UnmarshalJSON(data []byte) error {
	v, err := decodeAny(data)
	if err != nil {
		return err
	}
	*m = NewMissingDocuments(v)
	return nil
}

// MarshalJSON always emits an array.
func (m MissingDocuments) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Items())
}

func decodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
