package model

import (
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// SurveyResponse is one stored survey submission, one field per known
// question plus the raw submission as a forward-compatibility blob.
// Absent answers stay nil/empty and never count as zero in aggregates.
type SurveyResponse struct {
	ID        int64
	CreatedAt time.Time

	ClientTimestamp string
	ClientIP        string
	UserAgent       string

	Q1TimeKnown        string
	Q2FirstThought     string
	Q2Tags             string
	Q3Experience       string
	Q4Likes            string
	Q4Why              string
	Q5Improvements     string
	Q5Comment          string
	Q6StaffRating      *int64
	Q7ProductsUpdated  *int64
	Q7Comment          string
	Q8DesiredProducts  string
	Q8Other            string
	Q9BrandPersonality string
	Q9Tags             string
	Q10Trust           *int64
	Q10Comment         string
	Q11Communicate     string
	Q11Other           string

	RawData string

	// Raw keeps the decoded submission (server metadata included) for
	// backends that store the payload verbatim.
	Raw map[string]any
}

// FromSubmission maps a decoded submission body onto the record.
// List-valued answers are serialized as JSON arrays; numeric answers
// are converted leniently and dropped when malformed.
func FromSubmission(data map[string]any) *SurveyResponse {
	raw, _ := json.Marshal(data)

	return &SurveyResponse{
		ClientTimestamp:    asString(data["timestamp"]),
		ClientIP:           asString(data["client_ip"]),
		UserAgent:          asString(data["user_agent"]),
		Q1TimeKnown:        asString(data["q1"]),
		Q2FirstThought:     asString(data["q2"]),
		Q2Tags:             jsonString(data["q2_tags"]),
		Q3Experience:       asString(data["q3"]),
		Q4Likes:            jsonString(data["q4"]),
		Q4Why:              asString(data["q4_why"]),
		Q5Improvements:     jsonString(data["q5"]),
		Q5Comment:          asString(data["q5_comment"]),
		Q6StaffRating:      asInt(data["q6"]),
		Q7ProductsUpdated:  asInt(data["q7_slider"]),
		Q7Comment:          asString(data["q7"]),
		Q8DesiredProducts:  jsonString(data["q8_tags"]),
		Q8Other:            asString(data["q8"]),
		Q9BrandPersonality: asString(data["q9"]),
		Q9Tags:             jsonString(data["q9_tags"]),
		Q10Trust:           asInt(data["q10_trust"]),
		Q10Comment:         asString(data["q10"]),
		Q11Communicate:     jsonString(data["q11"]),
		Q11Other:           asString(data["q11_other"]),
		RawData:            string(raw),
		Raw:                data,
	}
}

// ToMap is the wire shape of a database record. Key names follow the
// shape the frontend already consumes (q7_slider and q10_trust carry
// the numeric answers, bare qN the free-text ones).
func (r *SurveyResponse) ToMap() map[string]any {
	return map[string]any{
		"id":               r.ID,
		"created_at":       r.CreatedAt.UTC().Format(time.RFC3339),
		"client_timestamp": orNil(r.ClientTimestamp),
		"client_ip":        orNil(r.ClientIP),
		"user_agent":       orNil(r.UserAgent),
		"q1":               orNil(r.Q1TimeKnown),
		"q2":               orNil(r.Q2FirstThought),
		"q2_tags":          orNil(r.Q2Tags),
		"q3":               orNil(r.Q3Experience),
		"q4":               orNil(r.Q4Likes),
		"q4_why":           orNil(r.Q4Why),
		"q5":               orNil(r.Q5Improvements),
		"q5_comment":       orNil(r.Q5Comment),
		"q6":               intOrNil(r.Q6StaffRating),
		"q7_slider":        intOrNil(r.Q7ProductsUpdated),
		"q7":               orNil(r.Q7Comment),
		"q8_tags":          orNil(r.Q8DesiredProducts),
		"q8":               orNil(r.Q8Other),
		"q9":               orNil(r.Q9BrandPersonality),
		"q9_tags":          orNil(r.Q9Tags),
		"q10_trust":        intOrNil(r.Q10Trust),
		"q10":              orNil(r.Q10Comment),
		"q11":              orNil(r.Q11Communicate),
		"q11_other":        orNil(r.Q11Other),
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// jsonString serializes list values as JSON arrays; scalars pass through.
func jsonString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func asInt(v any) *int64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		i := int64(n)
		return &i
	case int:
		i := int64(n)
		return &i
	case int64:
		return &n
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		i := int64(f)
		return &i
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		i := int64(f)
		return &i
	default:
		return nil
	}
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intOrNil(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}
