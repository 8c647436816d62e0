package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/aburusaki/repeat/internal/store"
)

func ToCSV(stats []store.DailyStat, texts map[string]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Day", "Sentence ID", "Sentence", "Count"}); err != nil {
		return err
	}

	for _, st := range stats {
		text, ok := texts[st.SentenceID]
		if !ok {
			text = "(deleted)"
		}
		row := []string{
			st.Day,
			st.SentenceID,
			text,
			fmt.Sprintf("%d", st.Count),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
