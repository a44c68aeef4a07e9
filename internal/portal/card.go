package portal

import (
	"github.com/starford/sikabut/internal/models"
)

// Row is one labelled line of the result card.
type Row struct {
	Label string
	Value string
}

// CardRows lists the record fields in display order. Missing values show
// the branding's placeholder.
func CardRows(r models.FileRecord, b Branding) []Row {
	b = b.WithDefaults()
	orNoData := func(s string) string {
		if s == "" {
			return b.Copy.NoData
		}
		return s
	}
	return []Row{
		{Label: b.Labels.ApplicantName, Value: orNoData(r.ApplicantName.String())},
		{Label: b.Labels.FileNumber, Value: orNoData(r.FileNumber.String())},
		{Label: b.Labels.ServiceType, Value: orNoData(r.ServiceType.String())},
		{Label: b.Labels.FileStatus, Value: orNoData(r.FileStatus.String())},
		{Label: b.Labels.ApplicationDate, Value: orNoData(r.ApplicationDate.String())},
		{Label: b.Labels.CompletionDate, Value: orNoData(r.CompletionDate.String())},
		{Label: b.Labels.ApplicationYear, Value: orNoData(r.ApplicationYear.String())},
	}
}
