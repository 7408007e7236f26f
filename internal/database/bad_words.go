package database

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const badWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBadWords fetches the bad words list and stores the single-token entries.
// Join codes are screened against it so a family never gets an offensive code.
func (db *DB) SeedBadWords() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM bad_words").Scan(&count); err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}

	if count > 0 {
		logrus.WithField("count", count).Debug("Bad words filter already populated")
		return nil
	}

	logrus.Info("Downloading bad words list")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(badWordsURL)
	if err != nil {
		return fmt.Errorf("failed to download bad words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from bad words URL: %d", resp.StatusCode)
	}

	seen := make(map[string]struct{})
	var words []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word == "" || strings.ContainsAny(word, " -'") {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading bad words: %w", err)
	}

	added, err := db.InsertBadWords(words)
	if err != nil {
		return err
	}

	logrus.WithField("count", added).Info("Bad words filter populated")
	return nil
}

// InsertBadWords stores words in one transaction. Callers pass de-duplicated input.
func (db *DB) InsertBadWords(words []string) (int, error) {
	err := db.WithTx(func(tx *Tx) error {
		stmt, err := tx.Prepare(db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, word := range words {
			if _, err := stmt.Exec(word); err != nil {
				return fmt.Errorf("failed to insert bad word: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(words), nil
}

// ContainsBadWord reports whether any substring of text (3 runes or longer)
// is on the bad words list. Intended for short strings such as join codes.
func (db *DB) ContainsBadWord(text string) (bool, error) {
	candidates := substrings(strings.ToLower(text), 3)
	if len(candidates) == 0 {
		return false, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(candidates)), ", ")
	args := make([]interface{}, len(candidates))
	for i, c := range candidates {
		args[i] = c
	}

	var count int
	query := "SELECT COUNT(*) FROM bad_words WHERE word IN (" + placeholders + ")"
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check bad words: %w", err)
	}
	return count > 0, nil
}

func substrings(s string, minLen int) []string {
	runes := []rune(s)
	seen := make(map[string]struct{})
	var out []string
	for size := minLen; size <= len(runes); size++ {
		for start := 0; start+size <= len(runes); start++ {
			sub := string(runes[start : start+size])
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			out = append(out, sub)
		}
	}
	return out
}
