package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertStat is a test helper that writes a count for an arbitrary day.
func insertStat(t *testing.T, s *Store, day, sentenceID string, count int64) {
	t.Helper()
	_, err := s.db.Exec(
		`INSERT INTO daily_stats (day, sentence_id, count) VALUES (?, ?, ?)`,
		day, sentenceID, count,
	)
	if err != nil {
		t.Fatalf("insert stat: %v", err)
	}
}

func dayAgo(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/repeat.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Categories
// ============================================================

func TestCreateAndGetCategory(t *testing.T) {
	s := newTestStore(t)
	c, err := s.CreateCategory("Calm")
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != "Calm" {
		t.Fatalf("unexpected category: %+v", c)
	}
	if c.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if c.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}

	fetched, err := s.GetCategory(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Name != "Calm" {
		t.Fatalf("GetCategory returned wrong name: %s", fetched.Name)
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetCategory("missing")
	if err == nil {
		t.Fatal("expected error for missing category")
	}
}

func TestListCategories(t *testing.T) {
	s := newTestStore(t)
	s.CreateCategory("Focus")
	s.CreateCategory("Breath")

	cats, err := s.ListCategories()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	// Should be sorted by name
	if cats[0].Name != "Breath" || cats[1].Name != "Focus" {
		t.Fatalf("expected sorted by name: got %s, %s", cats[0].Name, cats[1].Name)
	}
}

func TestListCategoriesEmpty(t *testing.T) {
	s := newTestStore(t)
	cats, err := s.ListCategories()
	if err != nil {
		t.Fatal(err)
	}
	if cats != nil {
		t.Fatalf("expected nil slice, got %d items", len(cats))
	}
}

func TestRenameCategory(t *testing.T) {
	s := newTestStore(t)
	c, _ := s.CreateCategory("Old")
	if err := s.RenameCategory(c.ID, "New"); err != nil {
		t.Fatal(err)
	}
	renamed, _ := s.GetCategory(c.ID)
	if renamed.Name != "New" {
		t.Fatalf("rename failed: %+v", renamed)
	}
}

func TestDeleteCategoryKeepsSentences(t *testing.T) {
	s := newTestStore(t)
	c, _ := s.CreateCategory("Calm")
	sent, _ := s.CreateSentence("Breathe in.", []string{c.ID})

	if err := s.DeleteCategory(c.ID); err != nil {
		t.Fatal(err)
	}

	// The sentence survives, only the link goes.
	fetched, err := s.GetSentence(sent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched.CategoryIDs) != 0 {
		t.Fatalf("expected no category links, got %v", fetched.CategoryIDs)
	}
}

// ============================================================
// Sentences
// ============================================================

func TestCreateAndGetSentence(t *testing.T) {
	s := newTestStore(t)
	c1, _ := s.CreateCategory("Calm")
	c2, _ := s.CreateCategory("Focus")

	sent, err := s.CreateSentence("This moment is enough.", []string{c1.ID, c2.ID})
	if err != nil {
		t.Fatal(err)
	}
	if sent.Text != "This moment is enough." {
		t.Fatalf("unexpected sentence: %+v", sent)
	}
	if sent.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if len(sent.CategoryIDs) != 2 {
		t.Fatalf("expected 2 category links, got %d", len(sent.CategoryIDs))
	}

	fetched, err := s.GetSentence(sent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Text != sent.Text || len(fetched.CategoryIDs) != 2 {
		t.Fatalf("GetSentence mismatch: %+v", fetched)
	}
}

func TestCreateSentenceUncategorized(t *testing.T) {
	s := newTestStore(t)
	sent, err := s.CreateSentence("Just sit.", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sent.CategoryIDs) != 0 {
		t.Fatalf("expected no links, got %v", sent.CategoryIDs)
	}
}

func TestGetSentenceNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSentence("missing")
	if err == nil {
		t.Fatal("expected error for missing sentence")
	}
}

func TestListSentences(t *testing.T) {
	s := newTestStore(t)
	c, _ := s.CreateCategory("Calm")
	first, _ := s.CreateSentence("First.", []string{c.ID})
	second, _ := s.CreateSentence("Second.", nil)

	all, err := s.ListSentences()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(all))
	}
	// Insertion order
	if all[0].ID != first.ID || all[1].ID != second.ID {
		t.Fatal("sentences should list in creation order")
	}
	if len(all[0].CategoryIDs) != 1 || all[0].CategoryIDs[0] != c.ID {
		t.Fatalf("expected link to %s, got %v", c.ID, all[0].CategoryIDs)
	}
	if len(all[1].CategoryIDs) != 0 {
		t.Fatal("second sentence should have no links")
	}
}

func TestListSentencesEmpty(t *testing.T) {
	s := newTestStore(t)
	all, err := s.ListSentences()
	if err != nil {
		t.Fatal(err)
	}
	if all != nil {
		t.Fatalf("expected nil slice, got %d items", len(all))
	}
}

func TestUpdateSentence(t *testing.T) {
	s := newTestStore(t)
	c1, _ := s.CreateCategory("Calm")
	c2, _ := s.CreateCategory("Focus")
	sent, _ := s.CreateSentence("Old text.", []string{c1.ID})

	if err := s.UpdateSentence(sent.ID, "New text.", []string{c2.ID}); err != nil {
		t.Fatal(err)
	}
	updated, _ := s.GetSentence(sent.ID)
	if updated.Text != "New text." {
		t.Fatalf("text not updated: %+v", updated)
	}
	if len(updated.CategoryIDs) != 1 || updated.CategoryIDs[0] != c2.ID {
		t.Fatalf("links not replaced: %v", updated.CategoryIDs)
	}
}

func TestUpdateSentenceNotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateSentence("missing", "x", nil); err == nil {
		t.Fatal("expected error for missing sentence")
	}
}

func TestDeleteSentenceRemovesStats(t *testing.T) {
	s := newTestStore(t)
	c, _ := s.CreateCategory("Calm")
	sent, _ := s.CreateSentence("Going away.", []string{c.ID})
	s.IncrementToday(sent.ID)
	s.IncrementToday(sent.ID)

	if err := s.DeleteSentence(sent.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSentence(sent.ID); err == nil {
		t.Fatal("sentence should be gone")
	}

	stats, _ := s.GetToday()
	if len(stats) != 0 {
		t.Fatalf("stats rows should be deleted with the sentence, got %d", len(stats))
	}
}

// ============================================================
// Daily stats
// ============================================================

func TestIncrementToday(t *testing.T) {
	s := newTestStore(t)
	sent, _ := s.CreateSentence("Counted.", nil)

	for i := 0; i < 3; i++ {
		if err := s.IncrementToday(sent.ID); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.GetToday()
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat row, got %d", len(stats))
	}
	if stats[0].SentenceID != sent.ID || stats[0].Count != 3 {
		t.Fatalf("unexpected stat: %+v", stats[0])
	}
	if stats[0].Day != time.Now().UTC().Format("2006-01-02") {
		t.Fatalf("stat recorded under wrong day: %s", stats[0].Day)
	}
}

func TestGetTodayOrderedByCount(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateSentence("A", nil)
	b, _ := s.CreateSentence("B", nil)
	s.IncrementToday(a.ID)
	s.IncrementToday(b.ID)
	s.IncrementToday(b.ID)

	stats, _ := s.GetToday()
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].SentenceID != b.ID {
		t.Fatal("highest count should come first")
	}
}

func TestGetTodayExcludesActiveTime(t *testing.T) {
	s := newTestStore(t)
	sent, _ := s.CreateSentence("Real.", nil)
	s.IncrementToday(sent.ID)
	s.IncrementActiveTime(120)

	stats, _ := s.GetToday()
	if len(stats) != 1 {
		t.Fatalf("active time should not appear in stats, got %d rows", len(stats))
	}
	if stats[0].SentenceID != sent.ID {
		t.Fatalf("unexpected row: %+v", stats[0])
	}
}

func TestGetRangeWindow(t *testing.T) {
	s := newTestStore(t)
	sent, _ := s.CreateSentence("Windowed.", nil)

	insertStat(t, s, dayAgo(0), sent.ID, 5)
	insertStat(t, s, dayAgo(3), sent.ID, 7)
	insertStat(t, s, dayAgo(10), sent.ID, 9)

	stats, err := s.GetRange(7)
	if err != nil {
		t.Fatal(err)
	}
	var total int64
	for _, st := range stats {
		total += st.Count
	}
	// The 10-day-old row falls outside a 7-day window.
	if total != 12 {
		t.Fatalf("expected total 12 inside the window, got %d", total)
	}
}

func TestSetCount(t *testing.T) {
	s := newTestStore(t)
	sent, _ := s.CreateSentence("Corrected.", nil)
	day := dayAgo(0)

	if err := s.SetCount(day, sent.ID, 42); err != nil {
		t.Fatal(err)
	}
	stats, _ := s.GetToday()
	if len(stats) != 1 || stats[0].Count != 42 {
		t.Fatalf("expected count 42, got %+v", stats)
	}

	// Negative corrections clamp to zero.
	s.SetCount(day, sent.ID, -5)
	stats, _ = s.GetToday()
	if stats[0].Count != 0 {
		t.Fatalf("expected clamp to 0, got %d", stats[0].Count)
	}
}

func TestResetAllStats(t *testing.T) {
	s := newTestStore(t)
	sent, _ := s.CreateSentence("Gone.", nil)
	s.IncrementToday(sent.ID)
	s.IncrementActiveTime(60)

	if err := s.ResetAllStats(); err != nil {
		t.Fatal(err)
	}
	stats, _ := s.GetToday()
	if len(stats) != 0 {
		t.Fatal("expected no stats after reset")
	}
	secs, _ := s.GetActiveTime()
	if secs != 0 {
		t.Fatalf("expected active time reset, got %d", secs)
	}
}

func TestActiveTimeAccumulates(t *testing.T) {
	s := newTestStore(t)

	total, err := s.IncrementActiveTime(30)
	if err != nil {
		t.Fatal(err)
	}
	if total != 30 {
		t.Fatalf("expected 30, got %d", total)
	}
	total, _ = s.IncrementActiveTime(45)
	if total != 75 {
		t.Fatalf("expected 75, got %d", total)
	}

	secs, _ := s.GetActiveTime()
	if secs != 75 {
		t.Fatalf("GetActiveTime: expected 75, got %d", secs)
	}
}

func TestGetActiveTimeEmpty(t *testing.T) {
	s := newTestStore(t)
	secs, err := s.GetActiveTime()
	if err != nil {
		t.Fatal(err)
	}
	if secs != 0 {
		t.Fatalf("expected 0, got %d", secs)
	}
}

func TestGetDailyTotals(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateSentence("A", nil)
	b, _ := s.CreateSentence("B", nil)

	insertStat(t, s, dayAgo(0), a.ID, 3)
	insertStat(t, s, dayAgo(0), b.ID, 2)
	insertStat(t, s, dayAgo(1), a.ID, 7)
	s.IncrementActiveTime(600) // must not inflate totals

	totals, err := s.GetDailyTotals(7)
	if err != nil {
		t.Fatal(err)
	}
	if totals[dayAgo(0)] != 5 {
		t.Fatalf("expected 5 today, got %d", totals[dayAgo(0)])
	}
	if totals[dayAgo(1)] != 7 {
		t.Fatalf("expected 7 yesterday, got %d", totals[dayAgo(1)])
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"cycle_length":  "3",
		"cycle_random":  "off",
		"count_mode":    "down",
		"count_up_wrap": "off",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSetting(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("cycle_length", "5")
	val, _ := s.GetSetting("cycle_length")
	if val != "5" {
		t.Fatalf("expected 5, got %s", val)
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 4 {
		t.Fatalf("expected at least 4 default settings, got %d", len(all))
	}
	// Should be sorted by key
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

// ============================================================
// Close safety
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
