package bank

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MegatronPika/question-system-v3/models"
)

// loadSQLite reads a bank that was pre-imported into SQLite. Options are
// stored as a JSON array in a text column.
func loadSQLite(path string) ([]models.Question, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open bank db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, number, type, content, options, correct_answer, analysis, score FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bank db: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var options string
		if err := rows.Scan(&q.ID, &q.Number, &q.Type, &q.Content, &options, &q.CorrectAnswer, &q.Analysis, &q.Score); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		if options != "" {
			if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
				return nil, fmt.Errorf("question %d has malformed options: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}
