package api

import (
	"sort"
	"sync"

	"github.com/usf-app/usf-backend/internal/models"
	"github.com/usf-app/usf-backend/internal/services"
)

// MemoryStore is a mutex-guarded in-memory implementation of every service
// store interface. It backs the router tests and the :memory: dev mode.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	surveys   map[string]*models.Survey
	questions map[int64]*models.Question
	responses map[string][]*models.Response // keyed by survey_id + "\x00" + user_id
	nextQID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     map[string]*models.User{},
		surveys:   map[string]*models.Survey{},
		questions: map[int64]*models.Question{},
		responses: map[string][]*models.Response{},
		nextQID:   1,
	}
}

func (s *MemoryStore) FindUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *MemoryStore) AddUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *u
	s.users[u.ID] = &copy
	return nil
}

func (s *MemoryStore) InsertSurvey(sv *models.Survey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *sv
	s.surveys[sv.ID] = &copy
	return nil
}

func (s *MemoryStore) GetSurvey(id string) (*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sv, ok := s.surveys[id]; ok {
		copy := *sv
		return &copy, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListSurveys() ([]*models.Survey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		copy := *sv
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteSurvey(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for qid, q := range s.questions {
		if q.SurveyID == id {
			delete(s.questions, qid)
		}
	}
	delete(s.surveys, id)
	return nil
}

func (s *MemoryStore) InsertQuestion(q *models.Question) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *q
	copy.ID = s.nextQID
	s.nextQID++
	s.questions[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (s *MemoryStore) UpdateQuestion(q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; ok {
		copy := *q
		s.questions[q.ID] = &copy
	}
	return nil
}

func (s *MemoryStore) DeleteQuestion(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
	return nil
}

func (s *MemoryStore) ListQuestions(surveyID string) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if surveyID != "" && q.SurveyID != surveyID {
			continue
		}
		copy := *q
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SurveyID != out[j].SurveyID {
			return out[i].SurveyID < out[j].SurveyID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ReplaceResponses(surveyID, userID string, rs []*models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copies := make([]*models.Response, 0, len(rs))
	for _, r := range rs {
		c := *r
		copies = append(copies, &c)
	}
	s.responses[surveyID+"\x00"+userID] = copies
	return nil
}

// ListResponses mirrors the SQLite store helper for tests.
func (s *MemoryStore) ListResponses(surveyID, userID string) []*models.Response {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.responses[surveyID+"\x00"+userID]
	out := make([]*models.Response, 0, len(set))
	for _, r := range set {
		c := *r
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

var (
	_ services.AuthStore     = (*MemoryStore)(nil)
	_ services.SurveyStore   = (*MemoryStore)(nil)
	_ services.ResponseStore = (*MemoryStore)(nil)
)
