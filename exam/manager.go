package exam

import (
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/MegatronPika/question-system-v3/bank"
	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/practice"
	"github.com/MegatronPika/question-system-v3/store"
	"github.com/MegatronPika/question-system-v3/utils"
)

// questionsPerType is the fixed sample size per question type; an exam is
// always 3 * questionsPerType questions.
const questionsPerType = 50

const defaultRecordsPageSize = 10

var (
	// ErrExamNotFound: no ongoing exam matches the given id.
	ErrExamNotFound = errors.New("exam not found or already finished")
	// ErrInsufficientBank: some type pool has fewer questions than one
	// exam needs.
	ErrInsufficientBank = errors.New("question bank too small to assemble an exam")

	ErrUserNotFound = practice.ErrUserNotFound
)

// Manager owns the exam lifecycle: create, resume, autosave and finalize.
// Expiry is lazy; there is no background timer. An ongoing record whose
// time has run out is finalized at the moment a request touches it.
type Manager struct {
	repo  *bank.Repository
	store *store.Store
	now   func() time.Time
}

func NewManager(repo *bank.Repository, st *store.Store) *Manager {
	return &Manager{repo: repo, store: st, now: time.Now}
}

// Start resumes the user's ongoing exam when one is still running, or
// creates a fresh one. A stale ongoing record is finalized on the spot and
// never surfaced; the scan runs most-recent-first so if several ongoing
// records somehow exist, the newest wins.
func (m *Manager) Start(data *store.UserData, userID string) (*models.ExamSession, error) {
	prog, ok := data.Progress(userID)
	if !ok {
		return nil, ErrUserNotFound
	}

	records := data.ExamRecords[userID]
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Status != models.ExamStatusOngoing {
			continue
		}
		timeLeft := m.timeLeft(rec)
		if timeLeft <= 0 {
			m.finalize(data, userID, prog, rec)
			break
		}
		answers := rec.Answers
		if answers == nil {
			answers = map[string]models.AnswerValue{}
		}
		return &models.ExamSession{
			ExamID:    rec.ExamID,
			Questions: rec.Questions,
			Answers:   answers,
			TimeLeft:  timeLeft,
		}, nil
	}

	return m.create(data, userID)
}

func (m *Manager) create(data *store.UserData, userID string) (*models.ExamSession, error) {
	questions := m.repo.GetAll()

	pools := map[int][]models.Question{}
	for _, q := range questions {
		pools[q.Type] = append(pools[q.Type], q)
	}
	for _, t := range []int{models.TypeSingleChoice, models.TypeTrueFalse, models.TypeMultiChoice} {
		if len(pools[t]) < questionsPerType {
			return nil, ErrInsufficientBank
		}
	}

	examQuestions := make([]models.Question, 0, 3*questionsPerType)
	examQuestions = append(examQuestions, sample(pools[models.TypeSingleChoice], questionsPerType)...)
	examQuestions = append(examQuestions, sample(pools[models.TypeTrueFalse], questionsPerType)...)
	examQuestions = append(examQuestions, sample(pools[models.TypeMultiChoice], questionsPerType)...)

	now := m.now()
	rec := &models.ExamRecord{
		ExamID:          now.Format("20060102_150405"),
		StartTime:       utils.FormatISO(now),
		Status:          models.ExamStatusOngoing,
		Questions:       examQuestions,
		Answers:         map[string]models.AnswerValue{},
		DurationSeconds: models.DefaultExamDuration,
	}
	data.ExamRecords[userID] = append(data.ExamRecords[userID], rec)

	if err := m.store.Save(data); err != nil {
		utils.LogError("Persisting new exam %s failed: %v", rec.ExamID, err)
	}

	return &models.ExamSession{
		ExamID:    rec.ExamID,
		Questions: rec.Questions,
		Answers:   map[string]models.AnswerValue{},
		TimeLeft:  rec.DurationSeconds,
	}, nil
}

// sample draws n distinct questions from the pool.
func sample(pool []models.Question, n int) []models.Question {
	picked := make([]models.Question, 0, n)
	for _, i := range rand.Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}
	return picked
}

func (m *Manager) timeLeft(rec *models.ExamRecord) int {
	duration := rec.DurationSeconds
	if duration <= 0 {
		duration = models.DefaultExamDuration
	}
	elapsed := int(m.now().Sub(utils.ParseISO(rec.StartTime)).Seconds())
	if elapsed >= duration {
		return 0
	}
	return duration - elapsed
}

// SaveProgress overwrites an ongoing exam's answers wholesale and stamps
// the save time. It never scores.
func (m *Manager) SaveProgress(data *store.UserData, userID, examID string, answers map[string]models.AnswerValue) error {
	records := data.ExamRecords[userID]
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.ExamID != examID || rec.Status != models.ExamStatusOngoing {
			continue
		}
		if answers == nil {
			answers = map[string]models.AnswerValue{}
		}
		rec.Answers = answers
		rec.LastSaved = utils.FormatISO(m.now())
		if err := m.store.Save(data); err != nil {
			utils.LogError("Autosave of exam %s failed: %v", examID, err)
		}
		return nil
	}
	return ErrExamNotFound
}

// Submit stores the final answers on the matching record and finalizes it.
// The manager trusts the caller not to resubmit a completed exam.
func (m *Manager) Submit(data *store.UserData, userID, examID string, answers map[string]models.AnswerValue) (*models.ExamResult, error) {
	prog, ok := data.Progress(userID)
	if !ok {
		return nil, ErrUserNotFound
	}

	var rec *models.ExamRecord
	for _, r := range data.ExamRecords[userID] {
		if r.ExamID == examID {
			rec = r
			break
		}
	}
	if rec == nil {
		return nil, ErrExamNotFound
	}

	if answers == nil {
		answers = map[string]models.AnswerValue{}
	}
	rec.Answers = answers
	total, wrongs := m.finalize(data, userID, prog, rec)
	return &models.ExamResult{TotalScore: total, WrongAnswers: wrongs}, nil
}

// finalize scores every question of the record's fixed snapshot against
// the saved answers, applies the practice-style consequences to the user's
// progress, and completes the record. Blank answers land in the wrong
// summary but never in the wrong log.
func (m *Manager) finalize(data *store.UserData, userID string, prog *models.UserProgress, rec *models.ExamRecord) (int, []models.WrongAnswer) {
	answers := rec.Answers
	if answers == nil {
		answers = map[string]models.AnswerValue{}
	}

	total := 0
	wrongs := []models.WrongAnswer{}
	for _, q := range rec.Questions {
		answer := answers[strconv.Itoa(q.ID)]
		isCorrect, isUnanswered := practice.Score(q, answer)

		if isCorrect {
			total += q.Score
			prog.Answered[q.ID] = true
			continue
		}

		wrongs = append(wrongs, models.WrongAnswer{
			QuestionID:      q.ID,
			UserAnswer:      answer,
			CorrectAnswer:   q.CorrectAnswer,
			QuestionContent: q.Content,
			Analysis:        q.Analysis,
			Type:            q.Type,
			Score:           q.Score,
		})
		if !isUnanswered {
			prog.Wrong[q.ID] = true
			prog.Answered[q.ID] = true
			prog.WrongCount[q.ID]++
			data.WrongRecords[userID] = append(data.WrongRecords[userID], models.WrongRecord{
				QuestionID:      q.ID,
				UserAnswer:      answer,
				CorrectAnswer:   q.CorrectAnswer,
				Timestamp:       utils.FormatISO(m.now()),
				QuestionContent: q.Content,
				Analysis:        q.Analysis,
				Type:            q.Type,
			})
		}
	}

	rec.EndTime = utils.FormatISO(m.now())
	rec.Status = models.ExamStatusCompleted
	rec.TotalScore = &total
	rec.WrongAnswers = wrongs

	if err := m.store.Save(data); err != nil {
		utils.LogError("Persisting finalized exam %s failed: %v", rec.ExamID, err)
	}
	return total, wrongs
}

// Records lists the user's exam history newest-first, one page at a time.
// Any ongoing record whose time has run out is finalized before listing.
func (m *Manager) Records(data *store.UserData, userID string, page, pageSize int) (*models.ExamRecordsPage, error) {
	prog, ok := data.Progress(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultRecordsPageSize
	}

	for _, rec := range data.ExamRecords[userID] {
		if rec.Status == models.ExamStatusOngoing && m.timeLeft(rec) <= 0 {
			m.finalize(data, userID, prog, rec)
		}
	}

	records := make([]*models.ExamRecord, len(data.ExamRecords[userID]))
	copy(records, data.ExamRecords[userID])
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime > records[j].StartTime
	})

	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return &models.ExamRecordsPage{
		Records: records[start:end],
		Pagination: models.Pagination{
			TotalCount:  total,
			CurrentPage: page,
			PageSize:    pageSize,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

// Detail returns one exam record with its questions enriched from the live
// bank. Ongoing records also expose their saved answers so the client can
// offer to continue.
func (m *Manager) Detail(data *store.UserData, userID, examID string) (*models.ExamDetail, error) {
	prog, ok := data.Progress(userID)
	if !ok {
		return nil, ErrUserNotFound
	}

	var rec *models.ExamRecord
	for _, r := range data.ExamRecords[userID] {
		if r.ExamID == examID {
			rec = r
			break
		}
	}
	if rec == nil {
		return nil, ErrExamNotFound
	}

	byID := make(map[int]models.Question)
	for _, q := range m.repo.GetAll() {
		byID[q.ID] = q
	}

	detail := &models.ExamDetail{
		ExamID:    rec.ExamID,
		StartTime: rec.StartTime,
		EndTime:   rec.EndTime,
		Status:    rec.Status,
		Questions: make([]models.ExamDetailQuestion, 0, len(rec.Questions)),
	}
	if rec.TotalScore != nil {
		detail.TotalScore = *rec.TotalScore
	}

	for _, q := range rec.Questions {
		full, ok := byID[q.ID]
		if !ok {
			full = q
		}
		detail.Questions = append(detail.Questions, models.ExamDetailQuestion{
			ID:            q.ID,
			Number:        full.Number,
			Content:       full.Content,
			Type:          q.Type,
			Options:       full.Options,
			CorrectAnswer: q.CorrectAnswer,
			Score:         q.Score,
			Analysis:      full.Analysis,
			IsImportant:   prog.Important[q.ID],
		})
	}

	detail.WrongAnswers = rec.WrongAnswers
	if rec.Status == models.ExamStatusOngoing {
		answers := rec.Answers
		if answers == nil {
			answers = map[string]models.AnswerValue{}
		}
		detail.Answers = answers
	}
	return detail, nil
}
