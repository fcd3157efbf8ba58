package model

import (
	"testing"
	"time"
)

func TestFromSubmission(t *testing.T) {
	data := map[string]any{
		"timestamp":  "2024-05-01T10:00:00Z",
		"client_ip":  "203.0.113.7",
		"user_agent": "test-agent",
		"q1":         "1-2 years",
		"q2":         "quality",
		"q2_tags":    []any{"fast", "reliable"},
		"q3":         "good",
		"q6":         "4",
		"q7_slider":  float64(5),
		"q10_trust":  "not a number",
	}

	rec := FromSubmission(data)

	if rec.ClientTimestamp != "2024-05-01T10:00:00Z" {
		t.Errorf("ClientTimestamp = %q", rec.ClientTimestamp)
	}
	if rec.Q1TimeKnown != "1-2 years" {
		t.Errorf("Q1TimeKnown = %q", rec.Q1TimeKnown)
	}
	if rec.Q2Tags != `["fast","reliable"]` {
		t.Errorf("list answer not serialized as JSON array: %q", rec.Q2Tags)
	}
	if rec.Q6StaffRating == nil || *rec.Q6StaffRating != 4 {
		t.Errorf("numeric string answer not converted: %v", rec.Q6StaffRating)
	}
	if rec.Q7ProductsUpdated == nil || *rec.Q7ProductsUpdated != 5 {
		t.Errorf("JSON number answer not converted: %v", rec.Q7ProductsUpdated)
	}
	if rec.Q10Trust != nil {
		t.Errorf("malformed numeric answer should be nil, got %v", *rec.Q10Trust)
	}
	if rec.RawData == "" {
		t.Error("RawData should hold the full submission")
	}
	if rec.Raw == nil {
		t.Error("Raw should keep the decoded submission")
	}
}

func TestFromSubmissionAbsentAnswers(t *testing.T) {
	rec := FromSubmission(map[string]any{"q1": "a"})

	if rec.Q6StaffRating != nil {
		t.Error("absent q6 should be nil, never zero")
	}
	if rec.Q2Tags != "" {
		t.Errorf("absent q2_tags should be empty, got %q", rec.Q2Tags)
	}
}

func TestToMap(t *testing.T) {
	six := int64(4)
	rec := &SurveyResponse{
		ID:            42,
		CreatedAt:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Q1TimeKnown:   "1-2 years",
		Q6StaffRating: &six,
	}

	m := rec.ToMap()

	if m["id"] != int64(42) {
		t.Errorf("id = %v", m["id"])
	}
	if m["created_at"] != "2024-05-01T10:00:00Z" {
		t.Errorf("created_at = %v", m["created_at"])
	}
	if m["q1"] != "1-2 years" {
		t.Errorf("q1 = %v", m["q1"])
	}
	if m["q6"] != int64(4) {
		t.Errorf("q6 = %v", m["q6"])
	}
	// absent answers surface as null, not empty strings
	if m["q2"] != nil {
		t.Errorf("q2 = %v, want nil", m["q2"])
	}
	if m["q7_slider"] != nil {
		t.Errorf("q7_slider = %v, want nil", m["q7_slider"])
	}
	for _, key := range []string{"q3", "q4", "q5", "q8_tags", "q9", "q10_trust", "q11", "q11_other"} {
		if _, ok := m[key]; !ok {
			t.Errorf("key %q missing from wire map", key)
		}
	}
}
