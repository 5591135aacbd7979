package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"iqra/quran-api/auth"
	"iqra/quran-api/model"
	"iqra/quran-api/pkg/security"
	"iqra/quran-api/service"
	"iqra/quran-api/store"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fakes ---

type memStore struct {
	byID map[string]*model.User
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*model.User)}
}

func (f *memStore) Create(_ context.Context, u *model.User) error {
	for _, e := range f.byID {
		if e.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}

	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *memStore) FindByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (f *memStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}

	return nil, store.ErrNotFound
}

func (f *memStore) FindByIDWithActiveReset(_ context.Context, id string, now time.Time) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok || u.ResetCodeHash == nil || u.ResetCodeExpiry == nil || !now.Before(*u.ResetCodeExpiry) {
		return nil, store.ErrNotFound
	}

	cp := *u
	return &cp, nil
}

func (f *memStore) Update(_ context.Context, u *model.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return store.ErrNotFound
	}

	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

type recordingMailer struct {
	codes []string
}

func (m *recordingMailer) SendVerificationCode(_, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *recordingMailer) SendNewVerificationCode(_, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *recordingMailer) SendResetCode(_, code string) error {
	m.codes = append(m.codes, code)
	return nil
}

func (m *recordingMailer) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.codes)
	return m.codes[len(m.codes)-1]
}

type scriptedChat struct {
	replies []string
	calls   int
}

func (f *scriptedChat) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	reply := f.replies[f.calls]
	f.calls++

	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: reply}},
		},
	}, nil
}

// --- helpers ---

func newTestAPI(questions *service.Questions) (*API, *recordingMailer, *gin.Engine) {
	argon := &security.ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
	tokens := security.NewTokenIssuer("test-secret", 24*time.Hour)
	mailer := &recordingMailer{}

	a := &API{
		Tokens:    tokens,
		Auth:      auth.NewService(newMemStore(), argon, security.NewCodeIssuer(argon), tokens, mailer, 5),
		Questions: questions,
	}

	return a, mailer, newEngine(a)
}

func doJSON(engine *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func wrongCode(code string) string {
	if code == "100000" {
		return "100001"
	}
	return "100000"
}

// --- tests ---

func TestRegisterVerifyLoginScenario(t *testing.T) {
	_, mailer, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	userID := decode(t, w)["userId"].(string)
	require.NotEmpty(t, userID)
	code := mailer.last(t)

	// Same email again
	w = doJSON(engine, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "B",
		"email":    "a@x.com",
		"password": "pass5678",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login before verification
	w = doJSON(engine, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, userID, decode(t, w)["userId"])

	// Wrong code
	w = doJSON(engine, http.MethodPost, "/api/auth/verify-email", gin.H{
		"userId": userID,
		"code":   wrongCode(code),
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Correct code
	w = doJSON(engine, http.MethodPost, "/api/auth/verify-email", gin.H{
		"userId": userID,
		"code":   code,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])

	// Login works now
	w = doJSON(engine, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["token"])

	// Wrong password
	w = doJSON(engine, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "a@x.com",
		"password": "wrong999",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, _, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@x.com",
		"password": "pass1234",
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	_, _, engine := newTestAPI(nil)

	cases := []gin.H{
		{"name": "", "email": "a@x.com", "password": "pass1234"},
		{"name": "A", "email": "not-an-email", "password": "pass1234"},
		{"name": "A", "email": "a@x.com", "password": "short1"},
		{"name": "A", "email": "a@x.com", "password": "allletters"},
	}

	for _, body := range cases {
		w := doJSON(engine, http.MethodPost, "/api/auth/register", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestResendVerification(t *testing.T) {
	_, mailer, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodPost, "/api/auth/resend-verification", gin.H{"userId": "missing"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decode(t, w)["userId"].(string)

	w = doJSON(engine, http.MethodPost, "/api/auth/resend-verification", gin.H{"userId": userID}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Latest code verifies
	w = doJSON(engine, http.MethodPost, "/api/auth/verify-email", gin.H{
		"userId": userID,
		"code":   mailer.last(t),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Verified accounts can't ask for another code
	w = doJSON(engine, http.MethodPost, "/api/auth/resend-verification", gin.H{"userId": userID}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordReset(t *testing.T) {
	_, mailer, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodPost, "/api/auth/reset-request", gin.H{"email": "nobody@x.com"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decode(t, w)["userId"].(string)

	w = doJSON(engine, http.MethodPost, "/api/auth/reset-request", gin.H{"email": "a@x.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, decode(t, w)["userId"])
	code := mailer.last(t)

	w = doJSON(engine, http.MethodPost, "/api/auth/reset-password", gin.H{
		"userId":      userID,
		"code":        wrongCode(code),
		"newPassword": "newpass99",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/auth/reset-password", gin.H{
		"userId":      userID,
		"code":        code,
		"newPassword": "newpass99",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Spent code can't be replayed
	w = doJSON(engine, http.MethodPost, "/api/auth/reset-password", gin.H{
		"userId":      userID,
		"code":        code,
		"newPassword": "another99",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyTokenAndUpdateReciter(t *testing.T) {
	_, mailer, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodPost, "/api/auth/register", gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "pass1234",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decode(t, w)["userId"].(string)

	w = doJSON(engine, http.MethodPost, "/api/auth/verify-email", gin.H{
		"userId": userID,
		"code":   mailer.last(t),
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	// No token and a garbage token are both rejected
	w = doJSON(engine, http.MethodGet, "/api/auth/verify-token", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/auth/verify-token", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodGet, "/api/auth/verify-token", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Nil(t, user["favoriteReciter"])

	w = doJSON(engine, http.MethodPut, "/api/auth/update-reciter", gin.H{
		"reciter": gin.H{
			"id":      7,
			"name":    "Mishary Alafasy",
			"nameAr":  "مشاري العفاسي",
			"baseUrl": "https://cdn.example.com/alafasy",
		},
	}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(engine, http.MethodPut, "/api/auth/update-reciter", gin.H{
		"reciter": gin.H{
			"id":      7,
			"name":    "Mishary Alafasy",
			"nameAr":  "مشاري العفاسي",
			"baseUrl": "https://cdn.example.com/alafasy",
		},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	reciter := decode(t, w)["user"].(map[string]any)["favoriteReciter"].(map[string]any)
	assert.Equal(t, float64(7), reciter["id"])
	assert.Equal(t, "Mishary Alafasy", reciter["name"])

	// Persisted: the next profile read returns it
	w = doJSON(engine, http.MethodGet, "/api/auth/verify-token", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	reciter = decode(t, w)["user"].(map[string]any)["favoriteReciter"].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/alafasy", reciter["baseUrl"])
}

func TestAudioURLsEndpoint(t *testing.T) {
	_, _, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodPost, "/api/audio/urls", gin.H{
		"surah":     2,
		"startAyah": 255,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(engine, http.MethodPost, "/api/audio/urls", gin.H{
		"surah":      2,
		"startAyah":  255,
		"endAyah":    256,
		"reciterUrl": "https://cdn.example.com/reciter",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	urls := decode(t, w)["urls"].([]any)
	require.Len(t, urls, 2)
	assert.Equal(t, "https://cdn.example.com/reciter/002255.mp3", urls[0])
}

func TestQuestionAskEndpoint(t *testing.T) {
	questions := service.NewQuestionsWithClient(&scriptedChat{replies: []string{
		"Yes, this question is related to Islam.",
		`{"Surah": 2, "StartAyah": 255, "EndAyah": 255, "Verses": "Al-Baqarah"}`,
	}})
	_, _, engine := newTestAPI(questions)

	w := doJSON(engine, http.MethodPost, "/api/questions/ask", gin.H{
		"question": "What does the Quran say about the Throne Verse?",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "Al-Baqarah", resp["verses"])
	assert.Equal(t, float64(2), resp["surahNumber"])
}

func TestQuestionAskOffTopicLocalized(t *testing.T) {
	questions := service.NewQuestionsWithClient(&scriptedChat{replies: []string{
		"No, this is about cooking.",
		"No, this is about cooking.",
	}})
	_, _, engine := newTestAPI(questions)

	w := doJSON(engine, http.MethodPost, "/api/questions/ask", gin.H{
		"question": "How do I bake bread?",
		"language": "ar",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "عذراً")
}

func TestPing(t *testing.T) {
	_, _, engine := newTestAPI(nil)

	w := doJSON(engine, http.MethodGet, "/api/ping", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = doJSON(engine, http.MethodGet, "/api/test", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is reachable", decode(t, w)["message"])
}
