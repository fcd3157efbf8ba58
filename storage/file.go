package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/nanotronics/survey-server/log"
	"github.com/nanotronics/survey-server/model"
)

const csvFilename = "responses.csv"

// fileStore keeps one JSON file per record plus a cumulative CSV for
// convenience. File names embed microsecond time and a process-wide
// counter, so concurrent saves never collide even within one clock
// tick.
type fileStore struct {
	dir string

	counter atomic.Uint64
	csvMu   sync.Mutex
}

func newFileStore(dir string) (*fileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "storage.file.mkdir")
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Kind() string {
	return KindFile
}

func (s *fileStore) Save(_ context.Context, rec *model.SurveyResponse) (string, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	id := fmt.Sprintf("%s_%06d_%04d",
		rec.CreatedAt.Format("20060102_150405"),
		rec.CreatedAt.Nanosecond()/1000,
		s.counter.Inc(),
	)

	payload := rec.Raw
	if payload == nil {
		payload = rec.ToMap()
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "storage.file.marshal")
	}

	path := filepath.Join(s.dir, "response_"+id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "storage.file.write")
	}

	// The record file is the source of truth; a failed CSV append is
	// logged but does not fail the submission.
	if err := s.appendCSV(id, rec); err != nil {
		log.Warnf("storage.file.csv: %s", err)
	}

	return id, nil
}

// List returns every stored record, ordered by the client-asserted
// timestamp field, newest first. Files that fail to parse are skipped
// rather than aborting the whole listing.
func (s *fileStore) List(_ context.Context) ([]map[string]any, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "storage.file.list")
	}

	responses := []map[string]any{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			log.Debugf("storage.file.read %s: %s", name, err)
			continue
		}

		var response map[string]any
		if err := json.Unmarshal(data, &response); err != nil {
			log.Debugf("storage.file.parse %s: %s", name, err)
			continue
		}
		responses = append(responses, response)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return clientTimestamp(responses[i]) > clientTimestamp(responses[j])
	})

	return responses, nil
}

func (s *fileStore) Health(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return errors.Wrap(err, "storage.file.stat")
	}
	if !info.IsDir() {
		return errors.Errorf("storage.file: %s is not a directory", s.dir)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

var csvHeader = []string{
	"id", "server_timestamp", "client_timestamp", "client_ip", "user_agent",
	"q1", "q2", "q2_tags", "q3", "q4", "q4_why", "q5", "q5_comment",
	"q6", "q7_slider", "q7", "q8_tags", "q8", "q9", "q9_tags",
	"q10_trust", "q10", "q11", "q11_other",
}

func (s *fileStore) appendCSV(id string, rec *model.SurveyResponse) error {
	s.csvMu.Lock()
	defer s.csvMu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, csvFilename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}

	row := []string{
		id,
		rec.CreatedAt.Format(time.RFC3339),
		rec.ClientTimestamp,
		rec.ClientIP,
		rec.UserAgent,
		rec.Q1TimeKnown,
		rec.Q2FirstThought,
		rec.Q2Tags,
		rec.Q3Experience,
		rec.Q4Likes,
		rec.Q4Why,
		rec.Q5Improvements,
		rec.Q5Comment,
		intField(rec.Q6StaffRating),
		intField(rec.Q7ProductsUpdated),
		rec.Q7Comment,
		rec.Q8DesiredProducts,
		rec.Q8Other,
		rec.Q9BrandPersonality,
		rec.Q9Tags,
		intField(rec.Q10Trust),
		rec.Q10Comment,
		rec.Q11Communicate,
		rec.Q11Other,
	}
	if err := w.Write(row); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func intField(i *int64) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(*i, 10)
}

func clientTimestamp(response map[string]any) string {
	ts, _ := response["timestamp"].(string)
	return ts
}
