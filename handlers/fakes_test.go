package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"jobtrack-backend/auth"
	"jobtrack-backend/models"
	"jobtrack-backend/notify"
	"jobtrack-backend/repository"
	"jobtrack-backend/service"
	"jobtrack-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory store fakes implementing the handler-side store interfaces.
// They mirror the repository contracts: missing or foreign-owned rows
// come back as pgx.ErrNoRows, duplicate keys as SQLSTATE 23505.

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

type fakeApplicationStore struct {
	apps map[uuid.UUID]*models.Application
}

func newFakeApplicationStore() *fakeApplicationStore {
	return &fakeApplicationStore{apps: make(map[uuid.UUID]*models.Application)}
}

func (f *fakeApplicationStore) Create(ctx context.Context, app *models.Application) error {
	app.LastUpdateAt = time.Now()
	stored := *app
	f.apps[app.ID] = &stored
	return nil
}

func (f *fakeApplicationStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	copied := *app
	return &copied, nil
}

func (f *fakeApplicationStore) List(ctx context.Context, userID uuid.UUID, filter repository.ApplicationFilter) ([]*models.Application, error) {
	var matched []*models.Application
	for _, app := range f.apps {
		if app.UserID != userID {
			continue
		}
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		if filter.Company != "" && !containsFold(app.Company, filter.Company) {
			continue
		}
		if filter.Role != "" && !containsFold(app.Role, filter.Role) {
			continue
		}
		if filter.Q != "" {
			jd := ""
			if app.JDText != nil {
				jd = *app.JDText
			}
			if !containsFold(app.Company, filter.Q) && !containsFold(app.Role, filter.Q) && !containsFold(jd, filter.Q) {
				continue
			}
		}
		copied := *app
		matched = append(matched, &copied)
	}

	sortApplications(matched, filter.Sort)

	start := (filter.Page - 1) * filter.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (f *fakeApplicationStore) Search(ctx context.Context, userID uuid.UUID, q string, limit int) ([]*models.Application, error) {
	var matched []*models.Application
	for _, app := range f.apps {
		if app.UserID != userID {
			continue
		}
		loc, jd := "", ""
		if app.Location != nil {
			loc = *app.Location
		}
		if app.JDText != nil {
			jd = *app.JDText
		}
		if containsFold(app.Company, q) || containsFold(app.Role, q) || containsFold(loc, q) || containsFold(jd, q) {
			copied := *app
			matched = append(matched, &copied)
		}
	}
	sortApplications(matched, "-last_update_at")
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeApplicationStore) Update(ctx context.Context, app *models.Application) error {
	existing, ok := f.apps[app.ID]
	if !ok || existing.UserID != app.UserID {
		return pgx.ErrNoRows
	}
	app.LastUpdateAt = time.Now()
	stored := *app
	f.apps[app.ID] = &stored
	return nil
}

func (f *fakeApplicationStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.apps, id)
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortApplications mirrors the repository's whitelist: unknown fields fall
// back to last_update_at descending.
func sortApplications(apps []*models.Application, sortParam string) {
	field := strings.TrimPrefix(sortParam, "-")
	descending := strings.HasPrefix(sortParam, "-")
	if field != "company" && field != "role" && field != "last_update_at" {
		field = "last_update_at"
		descending = true
	}
	sort.SliceStable(apps, func(i, j int) bool {
		var less bool
		switch field {
		case "company":
			less = apps[i].Company < apps[j].Company
		case "role":
			less = apps[i].Role < apps[j].Role
		default:
			less = apps[i].LastUpdateAt.Before(apps[j].LastUpdateAt)
		}
		if descending {
			return !less
		}
		return less
	})
}

type fakeStageStore struct {
	stages map[uuid.UUID]*models.Stage
	apps   *fakeApplicationStore
}

func (f *fakeStageStore) Create(ctx context.Context, stage *models.Stage) error {
	stage.CreatedAt = time.Now()
	f.stages[stage.ID] = stage
	return nil
}

func (f *fakeStageStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Stage, error) {
	var out []*models.Stage
	for _, s := range f.stages {
		if s.ApplicationID == applicationID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStageStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s, ok := f.stages[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if app, found := f.apps.apps[s.ApplicationID]; !found || app.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.stages, id)
	return nil
}

type fakeContactStore struct {
	contacts map[uuid.UUID]*models.Contact
	apps     *fakeApplicationStore
}

func (f *fakeContactStore) Create(ctx context.Context, contact *models.Contact) error {
	contact.CreatedAt = time.Now()
	f.contacts[contact.ID] = contact
	return nil
}

func (f *fakeContactStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Contact, error) {
	var out []*models.Contact
	for _, c := range f.contacts {
		if c.ApplicationID == applicationID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeContactStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	c, ok := f.contacts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if app, found := f.apps.apps[c.ApplicationID]; !found || app.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.contacts, id)
	return nil
}

type fakeNoteStore struct {
	notes map[uuid.UUID]*models.Note
	apps  *fakeApplicationStore
}

func (f *fakeNoteStore) Create(ctx context.Context, note *models.Note) error {
	note.CreatedAt = time.Now()
	f.notes[note.ID] = note
	return nil
}

func (f *fakeNoteStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.notes {
		if n.ApplicationID == applicationID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNoteStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	n, ok := f.notes[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if app, found := f.apps.apps[n.ApplicationID]; !found || app.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.notes, id)
	return nil
}

type fakeReminderStore struct {
	reminders map[uuid.UUID]*models.Reminder
	apps      *fakeApplicationStore
}

func (f *fakeReminderStore) Create(ctx context.Context, reminder *models.Reminder) error {
	f.reminders[reminder.ID] = reminder
	return nil
}

func (f *fakeReminderStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Reminder, error) {
	var out []*models.Reminder
	for _, r := range f.reminders {
		if r.ApplicationID == applicationID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

func (f *fakeReminderStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	r, ok := f.reminders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if app, found := f.apps.apps[r.ApplicationID]; !found || app.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.reminders, id)
	return nil
}

func (f *fakeReminderStore) MarkDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*models.Reminder, error) {
	var swept []*models.Reminder
	for _, r := range f.reminders {
		app, found := f.apps.apps[r.ApplicationID]
		if !found || app.UserID != userID {
			continue
		}
		if !r.Sent && !r.DueAt.After(now) {
			r.Sent = true
			swept = append(swept, r)
		}
	}
	return swept, nil
}

type tagLink struct {
	applicationID uuid.UUID
	tagID         uuid.UUID
}

type fakeTagStore struct {
	tags  map[uuid.UUID]*models.Tag
	links map[tagLink]bool
}

func (f *fakeTagStore) Create(ctx context.Context, tag *models.Tag) error {
	for _, t := range f.tags {
		if strings.EqualFold(t.Name, tag.Name) {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	f.tags[tag.ID] = tag
	return nil
}

func (f *fakeTagStore) List(ctx context.Context) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, t := range f.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTagStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, ok := f.tags[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTagStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, t := range f.tags {
		if strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTagStore) Assign(ctx context.Context, applicationID, tagID uuid.UUID) error {
	f.links[tagLink{applicationID, tagID}] = true
	return nil
}

func (f *fakeTagStore) Unassign(ctx context.Context, applicationID, tagID uuid.UUID) error {
	delete(f.links, tagLink{applicationID, tagID})
	return nil
}

type fakePresigner struct {
	uploads   int
	downloads int
}

func (f *fakePresigner) PresignUpload(ctx context.Context, fileName, contentType string) (string, string, error) {
	f.uploads++
	key := storage.ObjectKey(fileName)
	return "https://storage.test/put/" + key, key, nil
}

func (f *fakePresigner) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	f.downloads++
	return "https://storage.test/get/" + objectKey, nil
}

// testEnv wires the full router against fakes, mirroring cmd/server.
type testEnv struct {
	router    *gin.Engine
	users     *fakeUserStore
	apps      *fakeApplicationStore
	stages    *fakeStageStore
	contacts  *fakeContactStore
	notes     *fakeNoteStore
	reminders *fakeReminderStore
	tags      *fakeTagStore
	docs      *fakeDocumentStore
	presigner *fakePresigner
	tokens    *auth.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:     newFakeUserStore(),
		apps:      newFakeApplicationStore(),
		tags:      &fakeTagStore{tags: make(map[uuid.UUID]*models.Tag), links: make(map[tagLink]bool)},
		presigner: &fakePresigner{},
		tokens:    auth.NewTokenIssuer("test-secret", 60),
	}
	env.stages = &fakeStageStore{stages: make(map[uuid.UUID]*models.Stage), apps: env.apps}
	env.contacts = &fakeContactStore{contacts: make(map[uuid.UUID]*models.Contact), apps: env.apps}
	env.notes = &fakeNoteStore{notes: make(map[uuid.UUID]*models.Note), apps: env.apps}
	env.reminders = &fakeReminderStore{reminders: make(map[uuid.UUID]*models.Reminder), apps: env.apps}

	sweep := service.NewReminderService(
		service.WithReminderSweeper(env.reminders),
		service.WithNotifier(notify.NewNoop()),
	)

	authHandler := NewAuthHandler(env.users, env.tokens)
	appHandler := NewApplicationHandler(env.apps)
	stageHandler := NewStageHandler(env.stages, env.apps)
	contactHandler := NewContactHandler(env.contacts, env.apps)
	noteHandler := NewNoteHandler(env.notes, env.apps)
	reminderHandler := NewReminderHandler(env.reminders, env.apps, sweep)
	tagHandler := NewTagHandler(env.tags, env.apps)
	docStore := &fakeDocumentStore{docs: make(map[uuid.UUID]*models.Document), apps: env.apps}
	env.docs = docStore
	docHandler := NewDocumentHandler(docStore, env.apps, env.presigner)

	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	authed := r.Group("/")
	authed.Use(RequireAuth(env.tokens, env.users))
	{
		authed.GET("/auth/test-token", authHandler.TestToken)

		authed.GET("/applications", appHandler.List)
		authed.GET("/applications/search", appHandler.Search)
		authed.GET("/applications/:id", appHandler.Get)
		authed.POST("/applications", appHandler.Create)
		authed.PATCH("/applications/:id", appHandler.Update)
		authed.DELETE("/applications/:id", appHandler.Delete)

		authed.GET("/stages/:application_id", stageHandler.List)
		authed.POST("/stages", stageHandler.Create)
		authed.DELETE("/stages/:id", stageHandler.Delete)

		authed.GET("/contacts/:application_id", contactHandler.List)
		authed.POST("/contacts", contactHandler.Create)
		authed.DELETE("/contacts/:id", contactHandler.Delete)

		authed.GET("/notes/:application_id", noteHandler.List)
		authed.POST("/notes", noteHandler.Create)
		authed.DELETE("/notes/:id", noteHandler.Delete)

		authed.GET("/reminders/:application_id", reminderHandler.List)
		authed.POST("/reminders", reminderHandler.Create)
		authed.POST("/reminders/run-due", reminderHandler.RunDue)
		authed.DELETE("/reminders/:id", reminderHandler.Delete)

		authed.GET("/tags", tagHandler.List)
		authed.POST("/tags", tagHandler.Create)
		authed.POST("/tags/assign/:application_id/:tag_id", tagHandler.Assign)
		authed.DELETE("/tags/assign/:application_id/:tag_id", tagHandler.Unassign)

		authed.GET("/documents/:application_id", docHandler.List)
		authed.POST("/documents/:application_id/presign", docHandler.Presign)
		authed.POST("/documents", docHandler.Register)
		authed.GET("/documents/download/:document_id", docHandler.Download)
		authed.DELETE("/documents/:id", docHandler.Delete)
	}

	env.router = r
	return env
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
	}
	return w, env
}

// register creates a user through the endpoint and returns the bearer token
// and user id.
func (e *testEnv) register(t *testing.T, email, password string) (string, uuid.UUID) {
	t.Helper()

	w, env := e.do(t, http.MethodPost, "/auth/register", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, w.Code, w.Body.String())
	}

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("unmarshal register data: %v", err)
	}
	return data.Token, data.User.ID
}

// createApplication creates an application through the endpoint.
func (e *testEnv) createApplication(t *testing.T, token string, body gin.H) models.Application {
	t.Helper()

	w, env := e.do(t, http.MethodPost, "/applications", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create application: status %d, body %s", w.Code, w.Body.String())
	}

	var app models.Application
	if err := json.Unmarshal(env.Data, &app); err != nil {
		t.Fatalf("unmarshal application: %v", err)
	}
	return app
}

type fakeDocumentStore struct {
	docs map[uuid.UUID]*models.Document
	apps *fakeApplicationStore
}

func (f *fakeDocumentStore) Create(ctx context.Context, doc *models.Document) error {
	doc.UploadedAt = time.Now()
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocumentStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if app, found := f.apps.apps[d.ApplicationID]; !found || app.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (f *fakeDocumentStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*models.Document, error) {
	var out []*models.Document
	for _, d := range f.docs {
		if d.ApplicationID == applicationID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (f *fakeDocumentStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := f.GetByID(ctx, id, userID); err != nil {
		return err
	}
	delete(f.docs, id)
	return nil
}
