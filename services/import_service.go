package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pubquiz/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportService parses uploaded spreadsheets into question batches.
//
// Expected columns (0-indexed):
//
//	0 question text, 1 question type (ignored), 2-5 options 1-4,
//	6 correct answer (1-4), 7 time limit (ignored), 8 image link,
//	9 explanation
//
// Rows failing validation are excluded with a row-numbered error; fully
// blank rows are skipped silently. Valid rows are appended after the round's
// existing questions for the import language.
type ImportService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewImportService(db *gorm.DB, logger zerolog.Logger) *ImportService {
	return &ImportService{db: db, log: logger}
}

type ImportResult struct {
	Success           bool     `json:"success"`
	QuestionsImported int      `json:"questions_imported"`
	Errors            []string `json:"errors"`
}

func (s *ImportService) Import(file io.Reader, filename string, round *models.Round, language models.Language) ImportResult {
	errs := []string{}

	var rows [][]string
	var err error
	switch {
	case strings.HasSuffix(filename, ".xlsx") || strings.HasSuffix(filename, ".xls"):
		rows, err = readSpreadsheet(file)
	case strings.HasSuffix(filename, ".csv"):
		rows, err = readCSV(file)
	default:
		return ImportResult{Errors: []string{"Unsupported file format. Please use .xlsx, .xls, or .csv"}}
	}
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Error reading file: %v", err)}}
	}

	orderIndex, err := s.existingQuestionCount(round.ID, language)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Error reading file: %v", err)}}
	}

	questions := []models.Question{}
	for i, columns := range rows {
		if i == 0 {
			continue // header row
		}
		rowNumber := i + 1
		question := parseRow(columns, round.ID, language, orderIndex, rowNumber, &errs)
		if question != nil {
			questions = append(questions, *question)
			orderIndex++
		}
	}

	if len(questions) == 0 && len(errs) == 0 {
		return ImportResult{Errors: []string{"No questions found in file"}}
	}

	if len(questions) > 0 {
		tx := s.db.Begin()
		if err := tx.Create(&questions).Error; err != nil {
			tx.Rollback()
			return ImportResult{Errors: append(errs, fmt.Sprintf("Error saving questions: %v", err))}
		}
		if err := tx.Commit().Error; err != nil {
			return ImportResult{Errors: append(errs, fmt.Sprintf("Error saving questions: %v", err))}
		}
	}

	s.log.Info().
		Int("imported", len(questions)).
		Int("rejected", len(errs)).
		Uint("round_id", round.ID).
		Str("language", string(language)).
		Msg("question import finished")

	return ImportResult{
		Success:           len(errs) == 0,
		QuestionsImported: len(questions),
		Errors:            errs,
	}
}

func (s *ImportService) existingQuestionCount(roundID uint, language models.Language) (int, error) {
	var count int64
	err := s.db.Model(&models.Question{}).
		Where("round_id = ? AND language = ?", roundID, language).
		Count(&count).Error
	return int(count), err
}

// parseRow validates one data row. Rejected rows record an error and return
// nil; fully blank rows return nil without an error.
func parseRow(columns []string, roundID uint, language models.Language, orderIndex, rowNumber int, errs *[]string) *models.Question {
	blank := true
	for _, col := range columns {
		if strings.TrimSpace(col) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil
	}

	text := optional(column(columns, 0))
	image := optional(column(columns, 8))
	if text == nil && image == nil {
		*errs = append(*errs, fmt.Sprintf("Row %d: Question must have text or image", rowNumber))
		return nil
	}

	correctRaw := strings.TrimSpace(column(columns, 6))
	correct, err := strconv.Atoi(correctRaw)
	if err != nil || correct < 1 || correct > 4 {
		*errs = append(*errs, fmt.Sprintf("Row %d: Correct answer must be 1-4, got: %s", rowNumber, correctRaw))
		return nil
	}

	question := models.Question{
		RoundID:       roundID,
		OrderIndex:    orderIndex,
		Language:      language,
		Text:          text,
		ImageFilename: image,
		Explanation:   optional(column(columns, 9)),
	}

	for i := 0; i < 4; i++ {
		optionText := optional(column(columns, 2+i))
		if optionText == nil {
			*errs = append(*errs, fmt.Sprintf("Row %d: Option %d is empty", rowNumber, i+1))
			return nil
		}
		question.Options = append(question.Options, models.AnswerOption{
			OrderIndex: i,
			Text:       optionText,
			Correct:    i+1 == correct,
		})
	}

	return &question
}

func column(columns []string, index int) string {
	if index >= len(columns) {
		return ""
	}
	return columns[index]
}

func readSpreadsheet(file io.Reader) ([][]string, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return workbook.GetRows(sheets[0])
}

func readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}
