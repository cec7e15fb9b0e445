package corrections

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"organizer/internal/logging"
)

// exchangeRecord is the JSON shape used for correction export and
// import.
type exchangeRecord struct {
	Name      string `json:"folder_name"`
	Original  string `json:"original"`
	Correct   string `json:"correct"`
	Reason    string `json:"reason,omitempty"`
	TMDBID    int64  `json:"tmdb_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Export writes every recorded correction to w as a JSON array.
func (m *Manager) Export(ctx context.Context, w io.Writer) (int, error) {
	all, err := m.store.Corrections(ctx)
	if err != nil {
		return 0, err
	}
	records := make([]exchangeRecord, 0, len(all))
	for _, correction := range all {
		records = append(records, exchangeRecord{
			Name:      correction.Name,
			Original:  correction.Original,
			Correct:   correction.Correct,
			Reason:    correction.Reason,
			TMDBID:    correction.TMDBID,
			CreatedAt: correction.CreatedAt.Format(time.RFC3339),
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return 0, fmt.Errorf("encode corrections: %w", err)
	}
	return len(records), nil
}

// Import reads a JSON array of corrections from r and records each one.
// Records missing a name or correct label are skipped with a warning.
func (m *Manager) Import(ctx context.Context, r io.Reader) (int, error) {
	var records []exchangeRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode corrections: %w", err)
	}
	imported := 0
	for _, record := range records {
		if record.Name == "" || record.Correct == "" {
			m.logger.Warn("skipping incomplete correction record",
				logging.String("name", record.Name))
			continue
		}
		original := record.Original
		if original == "" {
			original = "Unknown"
		}
		if err := m.Record(ctx, record.Name, original, record.Correct, record.Reason, record.TMDBID); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}
