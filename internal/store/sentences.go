package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateSentence(text string, categoryIDs []string) (*Sentence, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sentences (id, text, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, text, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sentence: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO sentence_categories (sentence_id, category_id) VALUES (?, ?)`,
			id, cid,
		); err != nil {
			return nil, fmt.Errorf("link category %s: %w", cid, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetSentence(id)
}

func (s *Store) GetSentence(id string) (*Sentence, error) {
	sent := &Sentence{}
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, text, created_at, updated_at FROM sentences WHERE id = ?`, id,
	).Scan(&sent.ID, &sent.Text, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get sentence %s: %w", id, err)
	}
	sent.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sent.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	sent.CategoryIDs, err = s.sentenceCategoryIDs(id)
	if err != nil {
		return nil, err
	}
	return sent, nil
}

// ListSentences returns every sentence with its category ids populated.
func (s *Store) ListSentences() ([]Sentence, error) {
	rows, err := s.db.Query(
		`SELECT id, text, created_at, updated_at FROM sentences ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	defer rows.Close()

	var sentences []Sentence
	index := make(map[string]int)
	for rows.Next() {
		var sent Sentence
		var createdAt, updatedAt string
		if err := rows.Scan(&sent.ID, &sent.Text, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		sent.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		sent.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		index[sent.ID] = len(sentences)
		sentences = append(sentences, sent)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := s.db.Query(`SELECT sentence_id, category_id FROM sentence_categories`)
	if err != nil {
		return nil, fmt.Errorf("list sentence categories: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var sid, cid string
		if err := links.Scan(&sid, &cid); err != nil {
			return nil, err
		}
		if i, ok := index[sid]; ok {
			sentences[i].CategoryIDs = append(sentences[i].CategoryIDs, cid)
		}
	}
	return sentences, links.Err()
}

func (s *Store) UpdateSentence(id, text string, categoryIDs []string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE sentences SET text = ?, updated_at = ? WHERE id = ?`,
		text, now, id,
	)
	if err != nil {
		return fmt.Errorf("update sentence: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update sentence %s: not found", id)
	}

	// Re-link from scratch rather than diffing.
	if _, err := tx.Exec(`DELETE FROM sentence_categories WHERE sentence_id = ?`, id); err != nil {
		return fmt.Errorf("clear category links: %w", err)
	}
	for _, cid := range categoryIDs {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO sentence_categories (sentence_id, category_id) VALUES (?, ?)`,
			id, cid,
		); err != nil {
			return fmt.Errorf("link category %s: %w", cid, err)
		}
	}
	return tx.Commit()
}

// DeleteSentence removes the sentence, its category links and its stats rows
// in one transaction.
func (s *Store) DeleteSentence(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM daily_stats WHERE sentence_id = ?`, id); err != nil {
		return fmt.Errorf("delete stats rows: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sentence_categories WHERE sentence_id = ?`, id); err != nil {
		return fmt.Errorf("delete category links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM sentences WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete sentence: %w", err)
	}
	return tx.Commit()
}

func (s *Store) sentenceCategoryIDs(id string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT category_id FROM sentence_categories WHERE sentence_id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("sentence categories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			return nil, err
		}
		ids = append(ids, cid)
	}
	return ids, rows.Err()
}
