package registro

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type seedRow struct {
	employee      string
	salary        float64
	admissionDate string
	createdAt     string
}

var seedRows = []seedRow{
	{"João Silva Santos", 4500, "2023-03-15", "2023-03-15T10:30:00Z"},
	{"Maria Fernanda Costa", 6200, "2022-11-08", "2022-11-08T14:15:00Z"},
	{"Carlos Eduardo Lima", 5800, "2023-01-20", "2023-01-20T09:45:00Z"},
	{"Ana Paula Oliveira", 7500, "2021-09-12", "2021-09-12T16:20:00Z"},
	{"Roberto Alves Pereira", 3800, "2023-06-05", "2023-06-05T11:10:00Z"},
	{"Patricia Souza Mendes", 5200, "2022-08-30", "2022-08-30T13:25:00Z"},
	{"Fernando José Rodrigues", 6800, "2021-12-03", "2021-12-03T08:40:00Z"},
	{"Juliana Santos Silva", 4200, "2023-04-18", "2023-04-18T15:55:00Z"},
	{"Alexandre Martins Costa", 5600, "2022-07-25", "2022-07-25T12:30:00Z"},
	{"Camila Ribeiro Nascimento", 7200, "2021-10-14", "2021-10-14T07:15:00Z"},
}

// DemoRecords returns the demonstration data set. Ids are stable across
// runs so reseeding is idempotent per id.
func DemoRecords() []Record {
	out := make([]Record, 0, len(seedRows))
	for i, row := range seedRows {
		created, err := time.Parse(time.RFC3339, row.createdAt)
		if err != nil {
			continue
		}
		out = append(out, Record{
			ID:            uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("vera:demo-%d", i+1))).String(),
			Employee:      row.employee,
			Salary:        row.salary,
			AdmissionDate: row.admissionDate,
			CreatedAt:     created,
		})
	}
	return out
}
