package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"retreatdesk/internal/database"
	"retreatdesk/internal/repository"
)

func doJSONRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:roster_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	svc := NewService(
		repository.NewSessionRepository(db),
		repository.NewParticipantRepository(db),
		repository.NewRoomRepository(db),
		nil,
	)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestHandler_SessionAndParticipants(t *testing.T) {
	router := setupRouter(t)

	w := doJSONRequest(t, router, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Name: "Ten-day course"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSONRequest(t, router, http.MethodPost, "/api/v1/sessions/1/participants", ImportParticipantsRequest{
		Participants: []ParticipantInput{
			{Name: "Mira", Gender: "F", Age: 30, CompanionList: "Noor"},
			{Name: "Noor", Gender: "female", Age: 31},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"companion_groups":1`)

	w = doJSONRequest(t, router, http.MethodGet, "/api/v1/sessions/1/participants", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Count        int `json:"count"`
			Participants []struct {
				Category         string `json:"category"`
				CompanionGroupID *int64 `json:"companion_group_id"`
			} `json:"participants"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Count)
	for _, p := range resp.Data.Participants {
		assert.Equal(t, "new", p.Category)
		assert.NotNil(t, p.CompanionGroupID)
	}
}

func TestHandler_ValidationDetails(t *testing.T) {
	router := setupRouter(t)
	w := doJSONRequest(t, router, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Name: "S"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSONRequest(t, router, http.MethodPost, "/api/v1/sessions/1/participants", ImportParticipantsRequest{
		Participants: []ParticipantInput{{Gender: "F", Age: -1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"participants[0].name":"required"`)
	assert.Contains(t, w.Body.String(), `"participants[0].age":"gte"`)

	w = doJSONRequest(t, router, http.MethodGet, "/api/v1/sessions/7", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Rooms(t *testing.T) {
	router := setupRouter(t)
	body := ImportRoomsRequest{Rooms: []RoomInput{{RoomNumber: "101", Capacity: 2, RoomType: "new", GenderArea: "M"}}}

	w := doJSONRequest(t, router, http.MethodPost, "/api/v1/rooms", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSONRequest(t, router, http.MethodPost, "/api/v1/rooms", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ROOM_EXISTS")

	w = doJSONRequest(t, router, http.MethodGet, "/api/v1/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
