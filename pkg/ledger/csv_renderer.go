package ledger

import (
	"bytes"
	"encoding/csv"

	"github.com/stempel/stempel/internal/utils"
	log "github.com/sirupsen/logrus"
)

// exportDateFormat is the timestamp format of the Date export column.
const exportDateFormat = "2006-01-02 15:04"

type CsvRenderer interface {
	Render(entries []Entry) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// Render produces the ledger export: one header row, then one row per entry.
// Amounts carry the kind-specific unit suffix, matching on-screen display.
func (t *CsvRendererImpl) Render(entries []Entry) (string, error) {
	data := make([][]string, 0, len(entries)+1)
	data = append(data, []string{"Date", "Kind", "Delta", "Balance", "Note", "AffectedDate"})

	for _, entry := range entries {
		affectedDate := ""
		if entry.AffectedDate != nil {
			affectedDate = entry.AffectedDate.Format(utils.DateFormat)
		}
		data = append(data, []string{
			entry.Date.Format(exportDateFormat),
			entry.Kind,
			FormatAmount(entry.Kind, entry.Delta),
			FormatAmount(entry.Kind, entry.Balance),
			entry.Note,
			affectedDate,
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
