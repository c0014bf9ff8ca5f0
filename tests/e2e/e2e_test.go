package e2e

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"retreatdesk/internal/database"
	"retreatdesk/internal/domain"
	"retreatdesk/internal/modules/auth"
	jwtsvc "retreatdesk/internal/pkg/jwt"
	"retreatdesk/internal/server"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.AutoMigrate(db), "Failed to migrate")

	seed := uint64(7)
	r := server.New(server.Options{
		DB:          db,
		JWT:         jwtsvc.New("test_secret_key_32_characters_min", time.Hour),
		ShuffleSeed: &seed,
	})

	for _, op := range []struct {
		email string
		role  domain.OperatorRole
	}{{"admin@test.com", domain.RoleAdmin}, {"desk@test.com", domain.RoleOperator}} {
		hash, err := auth.HashPassword("password123")
		require.NoError(t, err)
		require.NoError(t, db.Create(&domain.Operator{Email: op.email, Name: string(op.role), PasswordHash: hash, Role: op.role}).Error)
	}

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, out interface{}) *TestResponse {
	t.Helper()
	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		log.Printf("Failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
		t.Fatalf("parse response: %v", err)
	}
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return &resp
}

func (s *E2ETestSuite) login(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	parseResponse(t, w, &data)
	require.NotEmpty(t, data.Token)
	return data.Token
}

// mustOK fails the test unless the request succeeded with want.
func (s *E2ETestSuite) mustOK(t *testing.T, want int, method, path string, body interface{}, token string, out interface{}) {
	t.Helper()
	w := s.makeRequest(method, path, body, token)
	require.Equal(t, want, w.Code, "%s %s: %s", method, path, w.Body.String())
	resp := parseResponse(t, w, out)
	require.True(t, resp.Success)
}

type seatView struct {
	ID            int64     `json:"id"`
	ParticipantID *int64    `json:"participant_id"`
	Status        string    `json:"status"`
	BedCode       string    `json:"bed_code"`
	Gender        string    `json:"gender"`
	SeatNumber    string    `json:"seat_number"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func TestE2E_Unauthorized(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(http.MethodGet, "/api/v1/sessions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "admin@test.com", "password": "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestE2E_AllocationAndSeating(t *testing.T) {
	s := setupTestSuite(t)
	desk := s.login(t, "desk@test.com")
	admin := s.login(t, "admin@test.com")

	var created struct {
		Session domain.Session `json:"session"`
	}
	s.mustOK(t, http.StatusCreated, http.MethodPost, "/api/v1/sessions", map[string]any{"name": "Ten-day course"}, desk, &created)
	require.Equal(t, int64(1), created.Session.ID)

	s.mustOK(t, http.StatusCreated, http.MethodPost, "/api/v1/rooms", map[string]any{"rooms": []map[string]any{
		{"room_number": "A101", "capacity": 2, "room_type": "experienced", "gender_area": "M"},
		{"room_number": "A102", "capacity": 2, "room_type": "new", "gender_area": "M"},
		{"room_number": "B101", "capacity": 3, "room_type": "new", "gender_area": "F"},
	}}, desk, nil)

	var imported struct {
		Imported        int `json:"imported"`
		CompanionGroups int `json:"companion_groups"`
	}
	s.mustOK(t, http.StatusCreated, http.MethodPost, "/api/v1/sessions/1/participants", map[string]any{"participants": []map[string]any{
		{"name": "Arjun", "gender": "M", "age": 45, "course_count": 3},
		{"name": "Bao", "gender": "male", "age": 30},
		{"name": "Chen", "gender": "男", "age": 25},
		{"name": "Mira", "gender": "F", "age": 34, "course_count": 1, "companion_list": "Noor"},
		{"name": "Noor", "gender": "female", "age": 29},
	}}, desk, &imported)
	assert.Equal(t, 5, imported.Imported)
	assert.Equal(t, 1, imported.CompanionGroups)

	s.mustOK(t, http.StatusOK, http.MethodPut, "/api/v1/sessions/1/hall-config", map[string]any{
		"hall_name": "Dhamma hall",
		"layout": map[string]any{
			"sections": []map[string]any{
				{"name": "A", "row_start": 0, "row_end": 1, "col_start": 0, "col_end": 2},
				{"name": "B", "row_start": 0, "row_end": 1, "col_start": 4, "col_end": 6},
			},
		},
	}, desk, nil)

	var run struct {
		Success        bool `json:"success"`
		AllocatedCount int  `json:"allocated_count"`
		Seats          struct {
			Generated bool `json:"generated"`
		} `json:"seats"`
	}
	s.mustOK(t, http.StatusOK, http.MethodPost, "/api/v1/sessions/1/allocations/auto", nil, desk, &run)
	assert.True(t, run.Success)
	assert.Equal(t, 5, run.AllocatedCount)
	assert.True(t, run.Seats.Generated)

	var allocations struct {
		Allocations []struct {
			RoomNumber string `json:"room_number"`
			BedCode    string `json:"bed_code"`
		} `json:"allocations"`
	}
	s.mustOK(t, http.StatusOK, http.MethodGet, "/api/v1/sessions/1/allocations", nil, desk, &allocations)
	require.Len(t, allocations.Allocations, 5)
	seen := map[string]bool{}
	for _, a := range allocations.Allocations {
		assert.False(t, seen[a.BedCode])
		seen[a.BedCode] = true
	}

	var listed struct {
		Seats []seatView `json:"seats"`
	}
	s.mustOK(t, http.StatusOK, http.MethodGet, "/api/v1/sessions/1/seats", nil, desk, &listed)
	require.Len(t, listed.Seats, 12)

	var occupied, empty *seatView
	for i := range listed.Seats {
		st := &listed.Seats[i]
		if st.Gender != "M" {
			continue
		}
		if st.ParticipantID != nil && occupied == nil {
			occupied = st
		}
		if st.ParticipantID == nil && empty == nil {
			empty = st
		}
	}
	require.NotNil(t, occupied)
	require.NotNil(t, empty)
	require.NotEmpty(t, occupied.BedCode)

	time.Sleep(20 * time.Millisecond)
	s.mustOK(t, http.StatusOK, http.MethodPost, "/api/v1/seats/swap", map[string]any{"seat_id_1": occupied.ID, "seat_id_2": empty.ID}, desk, nil)

	var a, b struct {
		Seat seatView `json:"seat"`
	}
	s.mustOK(t, http.StatusOK, http.MethodGet, "/api/v1/seats/"+strconv.FormatInt(occupied.ID, 10), nil, desk, &a)
	s.mustOK(t, http.StatusOK, http.MethodGet, "/api/v1/seats/"+strconv.FormatInt(empty.ID, 10), nil, desk, &b)

	assert.Nil(t, a.Seat.ParticipantID)
	assert.Equal(t, "available", a.Seat.Status)
	assert.Empty(t, a.Seat.BedCode)
	require.NotNil(t, b.Seat.ParticipantID)
	assert.Equal(t, *occupied.ParticipantID, *b.Seat.ParticipantID)
	assert.Equal(t, "allocated", b.Seat.Status)
	assert.Equal(t, occupied.BedCode, b.Seat.BedCode)
	assert.True(t, a.Seat.UpdatedAt.After(occupied.UpdatedAt))
	assert.True(t, b.Seat.UpdatedAt.After(empty.UpdatedAt))

	var conflicts struct {
		Count int `json:"count"`
	}
	s.mustOK(t, http.StatusOK, http.MethodGet, "/api/v1/sessions/1/conflicts", nil, desk, &conflicts)
	assert.GreaterOrEqual(t, conflicts.Count, 0)

	var stats struct {
		Statistics struct {
			Allocated       int `json:"allocated"`
			CompanionGroups int `json:"companion_groups"`
		} `json:"statistics"`
	}
	s.mustOK(t, http.StatusOK, http.MethodGet, "/api/v1/sessions/1/allocations/stats", nil, desk, &stats)
	assert.Equal(t, 5, stats.Statistics.Allocated)
	assert.Equal(t, 1, stats.Statistics.CompanionGroups)

	w := s.makeRequest(http.MethodDelete, "/api/v1/sessions/1/allocations", nil, desk)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var cleared struct {
		Allocations int64 `json:"allocations"`
		Seats       int64 `json:"seats"`
	}
	s.mustOK(t, http.StatusOK, http.MethodDelete, "/api/v1/sessions/1/allocations", nil, admin, &cleared)
	assert.Equal(t, int64(5), cleared.Allocations)
	assert.Equal(t, int64(12), cleared.Seats)
}
