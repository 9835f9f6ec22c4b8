package services

import (
	"sort"
	"testing"

	"github.com/usf-app/usf-backend/internal/models"
)

type surveyStubStore struct {
	surveys   map[string]*models.Survey
	questions map[int64]*models.Question
	nextQID   int64
}

func newSurveyStubStore() *surveyStubStore {
	return &surveyStubStore{
		surveys:   map[string]*models.Survey{},
		questions: map[int64]*models.Question{},
		nextQID:   1,
	}
}

func (s *surveyStubStore) InsertSurvey(sv *models.Survey) error {
	copy := *sv
	s.surveys[sv.ID] = &copy
	return nil
}

func (s *surveyStubStore) GetSurvey(id string) (*models.Survey, error) {
	if sv, ok := s.surveys[id]; ok {
		copy := *sv
		return &copy, nil
	}
	return nil, nil
}

func (s *surveyStubStore) ListSurveys() ([]*models.Survey, error) {
	out := make([]*models.Survey, 0, len(s.surveys))
	for _, sv := range s.surveys {
		copy := *sv
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *surveyStubStore) DeleteSurvey(id string) error {
	for qid, q := range s.questions {
		if q.SurveyID == id {
			delete(s.questions, qid)
		}
	}
	delete(s.surveys, id)
	return nil
}

func (s *surveyStubStore) InsertQuestion(q *models.Question) (*models.Question, error) {
	copy := *q
	copy.ID = s.nextQID
	s.nextQID++
	s.questions[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (s *surveyStubStore) UpdateQuestion(q *models.Question) error {
	if _, ok := s.questions[q.ID]; ok {
		copy := *q
		s.questions[q.ID] = &copy
	}
	return nil
}

func (s *surveyStubStore) DeleteQuestion(id int64) error {
	delete(s.questions, id)
	return nil
}

func (s *surveyStubStore) ListQuestions(surveyID string) ([]*models.Question, error) {
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

func questionInput(surveyID string, weight any) *QuestionInput {
	return &QuestionInput{
		SurveyID:          surveyID,
		SurveyDescription: "Demo survey",
		Category:          "general",
		Description:       "How satisfied are you?",
		Weight:            weight,
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	svc := NewSurveyService(newSurveyStubStore())

	if _, err := svc.CreateSurvey("", "desc"); err == nil {
		t.Fatalf("expected missing error for empty id")
	}
	if _, err := svc.CreateSurvey("S1", "  "); err == nil {
		t.Fatalf("expected missing error for empty description")
	}

	if _, err := svc.CreateSurvey("S1", "Demo"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := svc.CreateSurvey("S1", "Demo again")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetSurveyNotFound(t *testing.T) {
	svc := NewSurveyService(newSurveyStubStore())
	_, err := svc.GetSurvey("MISSING")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteSurveyCascadesQuestions(t *testing.T) {
	store := newSurveyStubStore()
	svc := NewSurveyService(store)

	if _, err := svc.CreateSurvey("S1", "Demo"); err != nil {
		t.Fatalf("create survey: %v", err)
	}
	if _, err := svc.CreateQuestion(questionInput("S1", 3)); err != nil {
		t.Fatalf("create question: %v", err)
	}
	if _, err := svc.CreateQuestion(questionInput("S1", 5)); err != nil {
		t.Fatalf("create question: %v", err)
	}

	if err := svc.DeleteSurvey("S1"); err != nil {
		t.Fatalf("delete survey: %v", err)
	}
	qs, err := svc.ListQuestions("S1")
	if err != nil {
		t.Fatalf("list questions: %v", err)
	}
	if len(qs) != 0 {
		t.Fatalf("expected no questions after cascade, got %d", len(qs))
	}

	// idempotent: deleting again still succeeds
	if err := svc.DeleteSurvey("S1"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	store := newSurveyStubStore()
	svc := NewSurveyService(store)
	if _, err := svc.CreateSurvey("S1", "Demo"); err != nil {
		t.Fatalf("create survey: %v", err)
	}

	in := questionInput("S1", 3)
	in.Category = ""
	if _, err := svc.CreateQuestion(in); err == nil {
		t.Fatalf("expected missing error for empty category")
	}

	_, err := svc.CreateQuestion(questionInput("NOPE", 3))
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorNotFound {
		t.Fatalf("expected not found for unknown survey, got %v", err)
	}

	_, err = svc.CreateQuestion(questionInput("S1", "abc"))
	se, ok = AsServiceError(err)
	if !ok || se.Code != ErrorInvalidInput {
		t.Fatalf("expected invalid input for non-numeric weight, got %v", err)
	}

	// numeric strings are accepted, as are JSON numbers
	q, err := svc.CreateQuestion(questionInput("S1", "7"))
	if err != nil {
		t.Fatalf("create question with string weight: %v", err)
	}
	if q.Weight != 7 {
		t.Fatalf("expected weight 7, got %d", q.Weight)
	}
	q, err = svc.CreateQuestion(questionInput("S1", float64(4)))
	if err != nil {
		t.Fatalf("create question with float weight: %v", err)
	}
	if q.Weight != 4 {
		t.Fatalf("expected weight 4, got %d", q.Weight)
	}
}

func TestUpdateQuestionOverwritesAllFields(t *testing.T) {
	store := newSurveyStubStore()
	svc := NewSurveyService(store)
	if _, err := svc.CreateSurvey("S1", "Demo"); err != nil {
		t.Fatalf("create survey: %v", err)
	}
	q, err := svc.CreateQuestion(questionInput("S1", 3))
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	in := questionInput("S1", 9)
	in.Category = "updated"
	if err := svc.UpdateQuestion(q.ID, in); err != nil {
		t.Fatalf("update question: %v", err)
	}
	got := store.questions[q.ID]
	if got.Category != "updated" || got.Weight != 9 {
		t.Fatalf("update did not overwrite fields: %+v", got)
	}

	// absent target id is a silent no-op
	if err := svc.UpdateQuestion(9999, questionInput("S1", 1)); err != nil {
		t.Fatalf("update of absent question should succeed, got %v", err)
	}
}

func TestListQuestionsFilter(t *testing.T) {
	svc := NewSurveyService(newSurveyStubStore())
	for _, id := range []string{"A", "B"} {
		if _, err := svc.CreateSurvey(id, "Survey "+id); err != nil {
			t.Fatalf("create survey %s: %v", id, err)
		}
		if _, err := svc.CreateQuestion(questionInput(id, 1)); err != nil {
			t.Fatalf("create question for %s: %v", id, err)
		}
	}

	qs, err := svc.ListQuestions("A")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(qs) != 1 || qs[0].SurveyID != "A" {
		t.Fatalf("unexpected filtered result: %+v", qs)
	}

	all, err := svc.ListQuestions("")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].SurveyID != "A" || all[1].SurveyID != "B" {
		t.Fatalf("unexpected ordering: %+v", all)
	}
}
