package transcript

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

// AllExportFilename is used for the combined all-identities export.
const AllExportFilename = "all_chat_logs.csv"

var csvHeader = []string{"id", "timestamp", "session_id", "name", "email", "role", "message"}

// EncodeCSV renders turns as UTF-8 delimited text, header row included.
func EncodeCSV(turns []Turn) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range turns {
		rec := []string{
			strconv.FormatUint(t.ID, 10),
			t.Timestamp.UTC().Format(time.RFC3339Nano),
			t.SessionID,
			t.Name,
			t.Email,
			t.Role,
			t.Message,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename derives a download name from an email; only the "@" is
// replaced with an underscore.
func ExportFilename(email string) string {
	return strings.ReplaceAll(email, "@", "_") + "_chatlog.csv"
}
