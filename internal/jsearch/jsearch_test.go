package jsearch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const searchBody = `{
  "status": "OK",
  "data": [
    {
      "job_id": "abc123",
      "job_title": "Junior Data Analyst",
      "employer_name": "Acme",
      "job_city": "",
      "job_country": "IN",
      "job_is_remote": true,
      "job_apply_link": "https://example.com/apply",
      "job_description": "entry level role",
      "job_min_salary": 50000,
      "job_max_salary": 80000,
      "job_salary_currency": null
    },
    {
      "job_id": "def456",
      "job_title": "Backend Intern",
      "employer_name": "Globex",
      "job_city": "Pune",
      "job_is_remote": false,
      "job_min_salary": null,
      "job_max_salary": null
    }
  ]
}`

func TestSearch(t *testing.T) {
	var gotQuery map[string]string
	var gotHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotHeaders = r.Header.Clone()
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := New("secret-key", "", server.URL, zap.NewNop())
	jobs, err := client.Search(context.Background(), Query{
		Text:       "Data Analyst fresher entry level",
		Location:   "Pune",
		RemoteOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Data Analyst fresher entry level in Pune", gotQuery["query"])
	assert.Equal(t, "1", gotQuery["page"])
	assert.Equal(t, "1", gotQuery["num_pages"])
	assert.Equal(t, "month", gotQuery["date_posted"])
	assert.Equal(t, "true", gotQuery["remote_jobs_only"])
	assert.Equal(t, "secret-key", gotHeaders.Get("X-RapidAPI-Key"))
	assert.Equal(t, DefaultHost, gotHeaders.Get("X-RapidAPI-Host"))

	require.Len(t, jobs, 2)
	assert.Equal(t, "abc123", jobs[0].ExternalID)
	assert.Equal(t, "IN", jobs[0].Location)
	assert.True(t, jobs[0].Remote)
	assert.Equal(t, "USD 50,000 - 80,000", jobs[0].SalaryRange)
	assert.Equal(t, "Pune", jobs[1].Location)
	assert.Empty(t, jobs[1].SalaryRange)
}

func TestSearchOmitsOptionalParams(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"status": "OK", "data": []}`))
	}))
	defer server.Close()

	jobs, err := New("key", "", server.URL, nil).Search(context.Background(), Query{Text: "Go Developer"})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.NotContains(t, rawQuery, "remote_jobs_only")
	assert.Contains(t, rawQuery, "query=Go+Developer")
}

func TestSearchGzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte(searchBody))
		_ = zw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	jobs, err := New("key", "", server.URL, nil).Search(context.Background(), Query{Text: "analyst"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
}

func TestSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := New("key", "", server.URL, nil).Search(context.Background(), Query{Text: "analyst"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)

	_, err = New("", "", server.URL, nil).Search(context.Background(), Query{Text: "analyst"})
	require.Error(t, err)

	_, err = New("key", "", server.URL, nil).Search(context.Background(), Query{Text: "  "})
	require.Error(t, err)
}

func TestNormalizeTruncatesDescription(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", DescriptionLimit+50)
	jobs := Normalize([]Posting{{ID: "1", Description: long}})
	require.Len(t, jobs, 1)
	assert.Equal(t, DescriptionLimit, len([]rune(jobs[0].Description)))
}

func TestSalaryRange(t *testing.T) {
	t.Parallel()

	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		min, max *float64
		currency string
		expect   string
	}{
		{name: "range", min: f(50000), max: f(80000), currency: "INR", expect: "INR 50,000 - 80,000"},
		{name: "minimum only", min: f(1200000), expect: "USD 1,200,000+"},
		{name: "maximum only", max: f(90000), expect: ""},
		{name: "zero minimum", min: f(0), max: f(100), expect: ""},
		{name: "nothing", expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, SalaryRange(tt.min, tt.max, tt.currency))
		})
	}
}
