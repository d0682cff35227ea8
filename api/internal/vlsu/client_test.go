package vlsu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// тестовый бэкенд; JSON нарочно уходит как text/plain, как у боевого
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/catalogs/GetInstitutes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(`[
		  {"Text": "Институт информационных технологий", "Value": "aaaabbbbccccddddaaaabbbbccccdddd"},
		  {"Text": "Педагогический институт", "Value": "11112222333344441111222233334444"}
		]`))
	})
	mux.HandleFunc("/api/student/GetStudGroups", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["Institut"])
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		// дрейф имён полей между релизами бэкенда
		_, _ = w.Write([]byte(`[
		  {"Nrec": "g1", "Name": "КП-125", "Course": "1"},
		  {"Value": "g2", "Text": "КП-225", "Kurs": "2"},
		  "мусор",
		  {"Id": "g3", "Name": "ПИ-121"}
		]`))
	})
	mux.HandleFunc("/api/student/GetGroupSchedule", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "g1", body["Nrec"])
		assert.Equal(t, "1,2,3,4,5,6", body["WeekDays"])
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(`[
		  {"type": "Lessons", "name": "Понедельник",
		   "n1": "лк, 529а-3, Филатов Д.О., Общая психология"}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetInstitutes(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	insts, err := c.GetInstitutes(context.Background())
	require.NoError(t, err)
	require.Len(t, insts, 2)
	assert.Equal(t, "aaaabbbbccccddddaaaabbbbccccdddd", insts[0].ID)
	assert.Equal(t, "Институт информационных технологий", insts[0].Name)
}

func TestFindInstituteID(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	id, err := c.FindInstituteID(ctx, "педагог")
	require.NoError(t, err)
	assert.Equal(t, "11112222333344441111222233334444", id)

	id, err = c.FindInstituteID(ctx, "несуществующий")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestGetGroupsFieldDrift(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	gs, err := c.GetGroups(context.Background(), "aaaabbbbccccddddaaaabbbbccccdddd", FormFullTime)
	require.NoError(t, err)
	require.Len(t, gs, 3) // строка-мусор отброшена

	assert.Equal(t, Group{ID: "g1", Name: "КП-125", Course: "1"}, gs[0])
	assert.Equal(t, Group{ID: "g2", Name: "КП-225", Course: "2"}, gs[1])
	assert.Equal(t, Group{ID: "g3", Name: "ПИ-121"}, gs[2])
}

func TestGetSchedule(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)

	lessons, err := c.GetSchedule(context.Background(), "g1", 0)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, 1, lessons[0].Day)
	assert.Equal(t, "Общая психология", lessons[0].Title)
	assert.Equal(t, "Филатов Д.О.", lessons[0].Teacher)
}

func TestGetScheduleServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetScheduleRaw(context.Background(), "g1", 0, "")
	assert.Error(t, err)
}

func TestFindGroup(t *testing.T) {
	gs := []Group{
		{ID: "a", Name: "КП -125"},
		{ID: "b", Name: "КП-125М"},
	}

	g, ok := FindGroup(gs, "кп-125")
	require.True(t, ok)
	assert.Equal(t, "a", g.ID) // точное совпадение важнее подстроки

	g, ok = FindGroup(gs, "125м")
	require.True(t, ok)
	assert.Equal(t, "b", g.ID)

	_, ok = FindGroup(gs, "ЭК-301")
	assert.False(t, ok)
}
