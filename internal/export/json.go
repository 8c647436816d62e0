package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aburusaki/repeat/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Stats      []jsonStat `json:"stats"`
}

type jsonStat struct {
	Day        string `json:"day"`
	SentenceID string `json:"sentence_id"`
	Sentence   string `json:"sentence"`
	Count      int64  `json:"count"`
}

func ToJSON(stats []store.DailyStat, texts map[string]string, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(stats),
	}

	for _, st := range stats {
		text, ok := texts[st.SentenceID]
		if !ok {
			text = "(deleted)"
		}
		export.Stats = append(export.Stats, jsonStat{
			Day:        st.Day,
			SentenceID: st.SentenceID,
			Sentence:   text,
			Count:      st.Count,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
