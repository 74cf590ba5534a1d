package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/aliskandarani/raai/internal/api"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	sqlDB, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := RunMigrations(sqlDB, ""); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := NewSQLiteStore(sqlDB, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func sampleSurvey(id string) *api.Survey {
	minPct, maxPct := 90.0, 100.0
	minV, maxV := 0.0, 100.0
	return &api.Survey{
		ID:           id,
		TitleAr:      "استبيان",
		TitleEn:      "Survey " + id,
		CustomerType: "pilgrims",
		CreatedBy:    "a1",
		CreatedAt:    time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Questions: []*api.Question{
			{
				ID: id + "q1", SurveyID: id, Type: "multiple_choice",
				ContentAr: "كيف؟", ContentEn: "How?", Required: true, OrderNum: 1,
				Options: []*api.Option{
					{ID: id + "o1", QuestionID: id + "q1", TextAr: "أ", TextEn: "A", OrderNum: 1},
					{ID: id + "o2", QuestionID: id + "q1", TextAr: "ب", TextEn: "B", OrderNum: 2},
				},
			},
			{
				ID: id + "q2", SurveyID: id, Type: "star_rating",
				ContentAr: "قيم", ContentEn: "Rate", OrderNum: 2, StarCount: 5,
				RangeMappings: []*api.RangeMapping{
					{ID: id + "m1", QuestionID: id + "q2", Stars: 5, MinPercentage: &minPct, MaxPercentage: &maxPct},
				},
			},
			{
				ID: id + "q3", SurveyID: id, Type: "percentage_range",
				ContentAr: "نسبة", ContentEn: "Percent", OrderNum: 3,
				MinValue: &minV, MaxValue: &maxV,
			},
		},
	}
}

func sampleResponse(id, surveyID, sessionID string) *api.Response {
	return &api.Response{
		ID: id, SurveyID: surveyID, SessionID: sessionID,
		SubmittedAt: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		Gender:      "male",
		Answers: []*api.Answer{
			{ID: id + "a1", ResponseID: id, QuestionID: surveyID + "q2", Value: "4"},
		},
	}
}

func TestSurveyRoundTrip(t *testing.T) {
	store := openStore(t)
	if err := store.InsertSurvey(sampleSurvey("s1")); err != nil {
		t.Fatalf("InsertSurvey returned error: %v", err)
	}

	got, err := store.GetSurvey("s1")
	if err != nil {
		t.Fatalf("GetSurvey returned error: %v", err)
	}
	if got == nil {
		t.Fatal("survey not found after insert")
	}
	if len(got.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(got.Questions))
	}
	for i, q := range got.Questions {
		if q.OrderNum != i+1 {
			t.Fatalf("question %d order = %d, want %d", i, q.OrderNum, i+1)
		}
	}
	if len(got.Questions[0].Options) != 2 {
		t.Fatalf("options = %d, want 2", len(got.Questions[0].Options))
	}
	m := got.Questions[1].RangeMappings
	if len(m) != 1 || m[0].MinPercentage == nil || *m[0].MinPercentage != 90 {
		t.Fatalf("mappings = %+v", m)
	}
	q3 := got.Questions[2]
	if q3.MinValue == nil || q3.MaxValue == nil || *q3.MaxValue != 100 {
		t.Fatalf("percentage bounds = %+v", q3)
	}
	if q3.Step != nil {
		t.Fatalf("step = %v, want nil when unset", *q3.Step)
	}

	missing, err := store.GetSurvey("nope")
	if err != nil || missing != nil {
		t.Fatalf("missing survey = (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestDuplicateResponseConstraint(t *testing.T) {
	store := openStore(t)
	if err := store.InsertSurvey(sampleSurvey("s1")); err != nil {
		t.Fatalf("InsertSurvey returned error: %v", err)
	}
	if err := store.InsertResponse(sampleResponse("r1", "s1", "sess1")); err != nil {
		t.Fatalf("first InsertResponse returned error: %v", err)
	}

	err := store.InsertResponse(sampleResponse("r2", "s1", "sess1"))
	if !errors.Is(err, api.ErrDuplicateResponse) {
		t.Fatalf("duplicate insert error = %v, want ErrDuplicateResponse", err)
	}
	// The failed transaction must leave no orphan answers.
	responses, err := store.ListResponses("s1")
	if err != nil {
		t.Fatalf("ListResponses returned error: %v", err)
	}
	if len(responses) != 1 || len(responses[0].Answers) != 1 {
		t.Fatalf("responses = %+v", responses)
	}

	// Different session on the same survey is fine.
	if err := store.InsertResponse(sampleResponse("r3", "s1", "sess2")); err != nil {
		t.Fatalf("second session insert returned error: %v", err)
	}
	ok, err := store.HasResponse("s1", "sess2")
	if err != nil || !ok {
		t.Fatalf("HasResponse = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestDeleteSurveyCascades(t *testing.T) {
	store := openStore(t)
	if err := store.InsertSurvey(sampleSurvey("s1")); err != nil {
		t.Fatalf("InsertSurvey returned error: %v", err)
	}
	if err := store.InsertResponse(sampleResponse("r1", "s1", "sess1")); err != nil {
		t.Fatalf("InsertResponse returned error: %v", err)
	}

	ok, err := store.DeleteSurvey("s1")
	if err != nil || !ok {
		t.Fatalf("DeleteSurvey = (%v, %v), want (true, nil)", ok, err)
	}
	n, err := store.CountResponses("s1")
	if err != nil || n != 0 {
		t.Fatalf("responses after cascade = %d (%v), want 0", n, err)
	}
	var answers int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM answers`).Scan(&answers); err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if answers != 0 {
		t.Fatalf("answers after cascade = %d, want 0", answers)
	}
}

func TestListSurveysFiltersAndCounts(t *testing.T) {
	store := openStore(t)
	pilgrims := sampleSurvey("s1")
	staff := sampleSurvey("s2")
	staff.CustomerType = "staff"
	staff.TitleEn = "Staff onboarding"
	for _, sv := range []*api.Survey{pilgrims, staff} {
		if err := store.InsertSurvey(sv); err != nil {
			t.Fatalf("InsertSurvey returned error: %v", err)
		}
	}
	if err := store.InsertResponse(sampleResponse("r1", "s1", "sess1")); err != nil {
		t.Fatalf("InsertResponse returned error: %v", err)
	}

	all, err := store.ListSurveys("", "")
	if err != nil {
		t.Fatalf("ListSurveys returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("surveys = %d, want 2", len(all))
	}
	counts := map[string]int{}
	for _, sv := range all {
		counts[sv.ID] = sv.ResponseCount
	}
	if counts["s1"] != 1 || counts["s2"] != 0 {
		t.Fatalf("response counts = %v", counts)
	}

	staffOnly, err := store.ListSurveys("staff", "")
	if err != nil || len(staffOnly) != 1 || staffOnly[0].ID != "s2" {
		t.Fatalf("staff filter = %+v (%v)", staffOnly, err)
	}
	searched, err := store.ListSurveys("", "onboarding")
	if err != nil || len(searched) != 1 || searched[0].ID != "s2" {
		t.Fatalf("search filter = %+v (%v)", searched, err)
	}
}

func TestReplaceAndAppendQuestions(t *testing.T) {
	store := openStore(t)
	if err := store.InsertSurvey(sampleSurvey("s1")); err != nil {
		t.Fatalf("InsertSurvey returned error: %v", err)
	}

	replacement := []*api.Question{
		{ID: "n1", SurveyID: "s1", Type: "text_box", ContentAr: "ملاحظات", ContentEn: "Notes", OrderNum: 1},
	}
	if err := store.ReplaceQuestions("s1", replacement); err != nil {
		t.Fatalf("ReplaceQuestions returned error: %v", err)
	}
	sv, err := store.GetSurvey("s1")
	if err != nil {
		t.Fatalf("GetSurvey returned error: %v", err)
	}
	if len(sv.Questions) != 1 || sv.Questions[0].ID != "n1" {
		t.Fatalf("questions after replace = %+v", sv.Questions)
	}

	appended := []*api.Question{
		{ID: "n2", SurveyID: "s1", Type: "text_box", ContentAr: "أخرى", ContentEn: "Other", OrderNum: 2},
	}
	if err := store.AppendQuestions("s1", appended); err != nil {
		t.Fatalf("AppendQuestions returned error: %v", err)
	}
	sv, err = store.GetSurvey("s1")
	if err != nil {
		t.Fatalf("GetSurvey returned error: %v", err)
	}
	if len(sv.Questions) != 2 || sv.Questions[1].ID != "n2" {
		t.Fatalf("questions after append = %+v", sv.Questions)
	}
}

func TestAdminRoundTrip(t *testing.T) {
	store := openStore(t)
	admin := &api.Admin{ID: "a1", Email: "Admin@Example.com", PassHash: []byte("hash"), CreatedAt: time.Now().UTC()}
	if err := store.AddAdmin(admin); err != nil {
		t.Fatalf("AddAdmin returned error: %v", err)
	}
	got, err := store.FindAdminByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("FindAdminByEmail returned error: %v", err)
	}
	if got == nil || got.ID != "a1" {
		t.Fatalf("admin lookup = %+v, want case-insensitive match", got)
	}
	none, err := store.FindAdminByEmail("other@example.com")
	if err != nil || none != nil {
		t.Fatalf("unknown admin = (%v, %v), want (nil, nil)", none, err)
	}
}

func TestAuditLog(t *testing.T) {
	store := openStore(t)
	store.AddAudit(api.AuditEntry{Time: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), Actor: "a1", Action: "create_survey", Target: "s1"})
	store.AddAudit(api.AuditEntry{Time: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), Actor: "a1", Action: "archive_survey", Target: "s1"})

	entries, err := store.ListAudit()
	if err != nil {
		t.Fatalf("ListAudit returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Action != "archive_survey" {
		t.Fatalf("first entry = %+v", entries[0])
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	store := openStore(t)
	if err := RunMigrations(store.db, ""); err != nil {
		t.Fatalf("second RunMigrations returned error: %v", err)
	}
}
