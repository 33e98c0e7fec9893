package store

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/spf13/cast"

	"github.com/MegatronPika/question-system-v3/models"
	"github.com/MegatronPika/question-system-v3/utils"
)

// UserData is the whole per-deployment document: progress, identity,
// wrong-answer log and exam history, each keyed by user id.
type UserData struct {
	Users        map[string]*models.UserProgress
	Profiles     map[string]*models.UserProfile
	WrongRecords map[string][]models.WrongRecord
	ExamRecords  map[string][]*models.ExamRecord
}

func NewUserData() *UserData {
	return &UserData{
		Users:        make(map[string]*models.UserProgress),
		Profiles:     make(map[string]*models.UserProfile),
		WrongRecords: make(map[string][]models.WrongRecord),
		ExamRecords:  make(map[string][]*models.ExamRecord),
	}
}

// Progress returns the progress of a known user, filling in the wrong-log
// and exam-record lists if this user has never touched them. Returns false
// for users that were never registered.
func (d *UserData) Progress(userID string) (*models.UserProgress, bool) {
	prog, ok := d.Users[userID]
	if !ok || prog == nil {
		return nil, false
	}
	if _, ok := d.WrongRecords[userID]; !ok {
		d.WrongRecords[userID] = []models.WrongRecord{}
	}
	if _, ok := d.ExamRecords[userID]; !ok {
		d.ExamRecords[userID] = []*models.ExamRecord{}
	}
	return prog, true
}

// Register creates the profile and the empty progress containers for a new
// user id.
func (d *UserData) Register(userID string, profile *models.UserProfile) {
	d.Profiles[userID] = profile
	d.Users[userID] = models.NewUserProgress()
	d.WrongRecords[userID] = []models.WrongRecord{}
	d.ExamRecords[userID] = []*models.ExamRecord{}
}

// The on-disk document keeps the mastery sets as arrays, historically with
// the occasional numeric-as-string id. All of that is normalized right
// here so the untyped form never leaks past the store boundary.

type storedProgress struct {
	Answered   []interface{}          `json:"answered_questions"`
	Wrong      []interface{}          `json:"wrong_questions"`
	WrongCount map[string]interface{} `json:"wrong_count"`
	Important  []interface{}          `json:"important_questions"`
}

type storedDocument struct {
	Users        map[string]storedProgress       `json:"users"`
	Profiles     map[string]*models.UserProfile  `json:"user_profiles"`
	WrongRecords map[string][]models.WrongRecord `json:"wrong_questions"`
	ExamRecords  map[string][]*models.ExamRecord `json:"exam_records"`
}

// toIDSet coerces a stored id sequence to a set of int ids. String digits
// become ints; entries that are not ids of any possible bank question are
// dropped with a warning rather than carried around untyped.
func toIDSet(raw []interface{}) map[int]bool {
	set := make(map[int]bool, len(raw))
	for _, v := range raw {
		id, err := cast.ToIntE(v)
		if err != nil {
			utils.LogStore("Dropping non-numeric question id %v", v)
			continue
		}
		set[id] = true
	}
	return set
}

// fromIDSet converts a set back to a stable (ascending) array for disk.
func fromIDSet(set map[int]bool) []interface{} {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func toProgress(sp storedProgress) *models.UserProgress {
	prog := &models.UserProgress{
		Answered:   toIDSet(sp.Answered),
		Wrong:      toIDSet(sp.Wrong),
		WrongCount: make(map[int]int, len(sp.WrongCount)),
		Important:  toIDSet(sp.Important),
	}
	for key, v := range sp.WrongCount {
		id, err := cast.ToIntE(key)
		if err != nil {
			utils.LogStore("Dropping non-numeric wrong_count key %q", key)
			continue
		}
		prog.WrongCount[id] = cast.ToInt(v)
	}
	return prog
}

func fromProgress(prog *models.UserProgress) storedProgress {
	sp := storedProgress{
		Answered:   fromIDSet(prog.Answered),
		Wrong:      fromIDSet(prog.Wrong),
		WrongCount: make(map[string]interface{}, len(prog.WrongCount)),
		Important:  fromIDSet(prog.Important),
	}
	for id, n := range prog.WrongCount {
		sp.WrongCount[strconv.Itoa(id)] = n
	}
	return sp
}

func (d *UserData) UnmarshalJSON(data []byte) error {
	var doc storedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*d = *NewUserData()
	for userID, sp := range doc.Users {
		d.Users[userID] = toProgress(sp)
	}
	if doc.Profiles != nil {
		d.Profiles = doc.Profiles
	}
	if doc.WrongRecords != nil {
		d.WrongRecords = doc.WrongRecords
	}
	if doc.ExamRecords != nil {
		d.ExamRecords = doc.ExamRecords
	}
	return nil
}

func (d *UserData) MarshalJSON() ([]byte, error) {
	doc := storedDocument{
		Users:        make(map[string]storedProgress, len(d.Users)),
		Profiles:     d.Profiles,
		WrongRecords: d.WrongRecords,
		ExamRecords:  d.ExamRecords,
	}
	for userID, prog := range d.Users {
		doc.Users[userID] = fromProgress(prog)
	}
	return json.Marshal(doc)
}
