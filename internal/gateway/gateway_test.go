package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"facegateway/internal/facesvc"
	"facegateway/internal/models"
	"facegateway/internal/repo"
)

// fakeFaceServer records what the gateway forwards and replies with a canned response.
type fakeFaceServer struct {
	mu       sync.Mutex
	status   int
	body     string
	received map[string][]map[string]string
	onCall   func()
}

// whenCalled runs fn inside the handler before the reply is written.
func (f *fakeFaceServer) whenCalled(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onCall = fn
}

func (f *fakeFaceServer) reply(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeFaceServer) calls(endpoint string) []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.received[endpoint]
}

func (f *fakeFaceServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload map[string]string
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	f.received[r.URL.Path[1:]] = append(f.received[r.URL.Path[1:]], payload)
	status, body, onCall := f.status, f.body, f.onCall
	f.mu.Unlock()

	if onCall != nil {
		onCall()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

type GatewaySuite struct {
	suite.Suite
	face  *fakeFaceServer
	srv   *httptest.Server
	users *repo.MemoryUserRepo
	gw    *Gateway
	logs  *bytes.Buffer
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.face = &fakeFaceServer{status: http.StatusCreated, body: `{"message":"Face registered successfully."}`, received: map[string][]map[string]string{}}
	s.srv = httptest.NewServer(s.face)
	s.users = repo.NewMemoryUserRepo()
	s.logs = &bytes.Buffer{}

	client := facesvc.New(facesvc.Config{BaseURL: s.srv.URL, RegisterTimeout: 2 * time.Second, RecognizeTimeout: 2 * time.Second}, nil)
	s.gw = New(s.users, client, slog.New(slog.NewTextHandler(s.logs, nil)))
	s.gw.HashCost = bcrypt.MinCost
}

func (s *GatewaySuite) TearDownTest() {
	s.srv.Close()
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:        "Budi Santoso",
		Email:       "budi@example.com",
		NIK:         "3201010101010001",
		PhoneNumber: "081234567890",
		Image:       "data:image/jpeg;base64,/9j/4AAQ",
	}
}

func (s *GatewaySuite) seedUser(nik, email string) models.User {
	u, err := s.users.Create(context.Background(), models.User{Name: "Seed", Email: email, NIK: nik, PhoneNumber: "081111111111", PasswordHash: "x"})
	s.Require().NoError(err)
	return u
}

func (s *GatewaySuite) requireKind(err error, kind Kind) *Error {
	var gerr *Error
	s.Require().ErrorAs(err, &gerr)
	s.Require().Equal(kind, gerr.Kind, gerr.Error())
	return gerr
}

func (s *GatewaySuite) TestRegisterSuccess() {
	res, err := s.gw.Register(context.Background(), validInput())
	s.Require().NoError(err)

	s.NotEmpty(res.User.ID)
	s.Equal("3201010101010001", res.User.NIK)
	s.Equal(json.RawMessage(`{"message":"Face registered successfully."}`), res.External)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("3201010101010001")))
	s.NotEqual("3201010101010001", res.User.PasswordHash)

	calls := s.face.calls(facesvc.EndpointRegister)
	s.Require().Len(calls, 1)
	s.Equal(map[string]string{"image": "data:image/jpeg;base64,/9j/4AAQ", "name": "Budi Santoso", "nik": "3201010101010001"}, calls[0])

	users, _ := s.users.List(context.Background())
	s.Len(users, 1)
}

func (s *GatewaySuite) TestRegisterDuplicateEmailAndNIK() {
	s.seedUser("3201010101010001", "budi@example.com")

	_, err := s.gw.Register(context.Background(), validInput())
	gerr := s.requireKind(err, KindValidation)
	s.Equal([]string{"The email has already been taken."}, gerr.Fields["email"])
	s.Equal([]string{"The nik has already been taken."}, gerr.Fields["nik"])
	s.Equal("The email has already been taken.", gerr.Message)

	s.Empty(s.face.calls(facesvc.EndpointRegister), "no enrollment on invalid input")
	users, _ := s.users.List(context.Background())
	s.Len(users, 1)
}

func (s *GatewaySuite) TestRegisterInvalidFields() {
	in := validInput()
	in.PhoneNumber = "6281234567890"
	in.NIK = "12345"
	in.Image = ""

	_, err := s.gw.Register(context.Background(), in)
	gerr := s.requireKind(err, KindValidation)
	s.True(gerr.Fields.Has("phone_number"))
	s.True(gerr.Fields.Has("nik"))
	s.True(gerr.Fields.Has("image"))
	s.Equal("The image field is required.", gerr.Message)
	s.Empty(s.face.calls(facesvc.EndpointRegister))
}

func (s *GatewaySuite) TestRegisterExternalError() {
	s.face.reply(http.StatusBadRequest, `{"message":"No face detected"}`)

	_, err := s.gw.Register(context.Background(), validInput())
	gerr := s.requireKind(err, KindExternal)
	s.Equal(http.StatusBadRequest, gerr.StatusCode)
	s.Equal(json.RawMessage(`{"message":"No face detected"}`), gerr.Payload)
	s.Equal(MsgRegisterFailed, gerr.Message)
	s.Contains(s.logs.String(), "No face detected")

	users, _ := s.users.List(context.Background())
	s.Empty(users)
}

func (s *GatewaySuite) TestRegisterTransportError() {
	s.srv.Close()

	_, err := s.gw.Register(context.Background(), validInput())
	gerr := s.requireKind(err, KindTransport)
	s.Equal(MsgUnreachable, gerr.Message)
	s.Contains(s.logs.String(), "face service unreachable")

	users, _ := s.users.List(context.Background())
	s.Empty(users)
}

func (s *GatewaySuite) TestRecognizeStripsDataURI() {
	s.seedUser("3201010101010001", "budi@example.com")
	s.face.reply(http.StatusOK, `{"status":"success","nik":"3201010101010001","confidence":0.95}`)

	res, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "data:image/png;base64,iVBORw0KGgo="})
	s.Require().NoError(err)

	calls := s.face.calls(facesvc.EndpointRecognize)
	s.Require().Len(calls, 1)
	s.Equal("iVBORw0KGgo=", calls[0]["image"])

	s.Equal("3201010101010001", res.User.NIK)
	s.Equal("3201010101010001", res.NIK)
	s.Equal(json.RawMessage(`0.95`), res.Confidence)
}

func (s *GatewaySuite) TestRecognizeWithoutConfidence() {
	s.seedUser("3201010101010001", "budi@example.com")
	s.face.reply(http.StatusOK, `{"nik":"3201010101010001"}`)

	res, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "abc"})
	s.Require().NoError(err)
	s.Nil(res.Confidence)
}

func (s *GatewaySuite) TestRecognizeUnknownNIK() {
	s.face.reply(http.StatusOK, `{"status":"success","nik":"3201010101019999"}`)

	_, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "abc"})
	gerr := s.requireKind(err, KindNotFound)
	s.Equal(MsgRecognizedNoRecord, gerr.Message)
	s.Equal("3201010101019999", gerr.NIK)
}

func (s *GatewaySuite) TestRecognizeFailedStatus() {
	s.face.reply(http.StatusOK, `{"status":"failed","message":"no match"}`)

	_, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "abc"})
	gerr := s.requireKind(err, KindNotFound)
	s.Equal(MsgNotRecognized, gerr.Message)
	s.Empty(gerr.NIK)
}

func (s *GatewaySuite) TestRecognizeExternalStatus() {
	s.face.reply(http.StatusServiceUnavailable, `{"message":"model loading"}`)

	_, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "abc"})
	gerr := s.requireKind(err, KindExternal)
	s.Equal(http.StatusServiceUnavailable, gerr.StatusCode)
	s.Equal(MsgRecognizeFailed, gerr.Message)
}

func (s *GatewaySuite) TestRecognizeTransportError() {
	s.srv.Close()
	_, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "abc"})
	s.requireKind(err, KindTransport)
}

func (s *GatewaySuite) TestRecognizeRequiresImage() {
	_, err := s.gw.Recognize(context.Background(), RecognizeInput{})
	gerr := s.requireKind(err, KindValidation)
	s.Equal([]string{"The image field is required."}, gerr.Fields["image"])
	s.Empty(s.face.calls(facesvc.EndpointRecognize))
}

func (s *GatewaySuite) TestListUsersAndUserByID() {
	u := s.seedUser("3201010101010001", "budi@example.com")

	users, err := s.gw.ListUsers(context.Background())
	s.Require().NoError(err)
	s.Len(users, 1)

	got, err := s.gw.UserByID(context.Background(), u.ID)
	s.Require().NoError(err)
	s.Equal(u, got)

	_, err = s.gw.UserByID(context.Background(), "missing")
	s.requireKind(err, KindNotFound)
}

// raceStore reports no existing user on lookup but rejects the insert, like a
// concurrent registration winning the unique index.
type raceStore struct{ *repo.MemoryUserRepo }

func (raceStore) Create(context.Context, models.User) (models.User, error) {
	return models.User{}, &repo.DuplicateError{Field: "nik"}
}

func (s *GatewaySuite) TestRegisterUniqueRaceIsValidationError() {
	s.gw.Users = raceStore{repo.NewMemoryUserRepo()}

	_, err := s.gw.Register(context.Background(), validInput())
	gerr := s.requireKind(err, KindValidation)
	s.Equal([]string{"The nik has already been taken."}, gerr.Fields["nik"])
}

// ctxStore fails inserts on a done context, like a database/sql store would.
type ctxStore struct{ *repo.MemoryUserRepo }

func (c ctxStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}
	return c.MemoryUserRepo.Create(ctx, u)
}

func (s *GatewaySuite) TestRegisterSurvivesCallerCancellation() {
	s.gw.Users = ctxStore{s.users}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.face.whenCalled(cancel)

	res, err := s.gw.Register(ctx, validInput())
	s.Require().NoError(err)
	s.Require().Error(ctx.Err())
	s.Equal("3201010101010001", res.User.NIK)

	s.Len(s.face.calls(facesvc.EndpointRegister), 1)
	users, _ := s.users.List(context.Background())
	s.Len(users, 1)
}

func (s *GatewaySuite) TestRecognizeSurvivesCallerCancellation() {
	s.seedUser("3201010101010001", "budi@example.com")
	s.face.reply(http.StatusOK, `{"status":"success","nik":"3201010101010001"}`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.face.whenCalled(cancel)

	res, err := s.gw.Recognize(ctx, RecognizeInput{Image: "abc"})
	s.Require().NoError(err)
	s.Equal("3201010101010001", res.User.NIK)
}

func (s *GatewaySuite) TestRegisterBlankFieldsAreRequired() {
	in := validInput()
	in.Name = "   "
	in.Image = " \t\n"

	_, err := s.gw.Register(context.Background(), in)
	gerr := s.requireKind(err, KindValidation)
	s.Equal([]string{"The name field is required."}, gerr.Fields["name"])
	s.Equal([]string{"The image field is required."}, gerr.Fields["image"])
	s.Empty(s.face.calls(facesvc.EndpointRegister))
}

func (s *GatewaySuite) TestRegisterTrimsInput() {
	in := validInput()
	in.Name = "  Budi Santoso "
	in.Email = " budi@example.com"

	res, err := s.gw.Register(context.Background(), in)
	s.Require().NoError(err)
	s.Equal("Budi Santoso", res.User.Name)
	s.Equal("budi@example.com", res.User.Email)
}

func (s *GatewaySuite) TestRecognizeBlankImageIsRequired() {
	_, err := s.gw.Recognize(context.Background(), RecognizeInput{Image: "   "})
	gerr := s.requireKind(err, KindValidation)
	s.Equal([]string{"The image field is required."}, gerr.Fields["image"])
	s.Empty(s.face.calls(facesvc.EndpointRecognize))
}
