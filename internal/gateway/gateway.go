package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"facegateway/internal/facesvc"
	"facegateway/internal/models"
	"facegateway/internal/repo"
	"facegateway/internal/util/imgutil"
	"facegateway/internal/validation"
)

const (
	MsgRegistered         = "Wajah berhasil didaftarkan dan data user disimpan."
	MsgRegisterFailed     = "Gagal mendaftarkan wajah ke microservice."
	MsgRecognizeFailed    = "Gagal mengenali wajah via microservice."
	MsgUnreachable        = "Server error: Tidak dapat terhubung ke microservice."
	MsgNotRecognized      = "Wajah tidak dikenali."
	MsgRecognizedNoRecord = "Wajah dikenali, tetapi NIK tidak ditemukan di database."
)

type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByNIK(ctx context.Context, nik string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type FaceService interface {
	RegisterFace(ctx context.Context, req facesvc.EnrollRequest) (facesvc.Response, error)
	RecognizeFace(ctx context.Context, image string) (facesvc.Recognition, error)
}

type Gateway struct {
	Users    UserStore
	Faces    FaceService
	Validate *validation.Validator
	Log      *slog.Logger

	// bcrypt cost; nol berarti bcrypt.DefaultCost
	HashCost int
}

func New(users UserStore, faces FaceService, log *slog.Logger) *Gateway {
	return &Gateway{
		Users:    users,
		Faces:    faces,
		Validate: validation.New(),
		Log:      log,
	}
}

type RegisterInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	NIK         string `json:"nik" validate:"required,nik"`
	PhoneNumber string `json:"phone_number" validate:"required,phone_id"`
	Image       string `json:"image" validate:"required"`
}

// trim mirip middleware TrimStrings: "   " dianggap kosong.
func (in *RegisterInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.NIK = strings.TrimSpace(in.NIK)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Image = strings.TrimSpace(in.Image)
}

var registerFieldOrder = []string{"image", "name", "email", "nik", "phone_number"}

type RegisterResult struct {
	User     models.User
	External any
}

// Register enrolls the face and then stores the user. Caller cancellation is
// ignored once started so an enrolled face always gets its local row; only the
// configured face service timeouts bound the call.
func (g *Gateway) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	ctx = context.WithoutCancel(ctx)
	in.trim()
	if err := g.validateRegister(ctx, in); err != nil {
		return RegisterResult{}, err
	}

	resp, err := g.Faces.RegisterFace(ctx, facesvc.EnrollRequest{Image: in.Image, Name: in.Name, NIK: in.NIK})
	if err != nil {
		return RegisterResult{}, g.faceError(ctx, err, MsgRegisterFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NIK), g.hashCost())
	if err != nil {
		return RegisterResult{}, &Error{Kind: KindInternal, Message: "hash error", Err: err}
	}

	u, err := g.Users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		NIK:          in.NIK,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
	})
	if err != nil {
		// lolos cek unik di atas tapi kalah balapan dengan request lain
		var dup *repo.DuplicateError
		if errors.As(err, &dup) {
			fields := validation.Errors{}
			fields.Add(dup.Field, takenMessage(dup.Field))
			return RegisterResult{}, &Error{Kind: KindValidation, Message: fields.First(), Fields: fields, Err: err}
		}
		g.Log.ErrorContext(ctx, "create user failed", "nik", in.NIK, "error", err)
		return RegisterResult{}, &Error{Kind: KindInternal, Message: "db error", Err: err}
	}

	g.Log.InfoContext(ctx, "face registered", "user_id", u.ID, "nik", u.NIK)
	return RegisterResult{User: u, External: resp.Payload()}, nil
}

func (g *Gateway) validateRegister(ctx context.Context, in RegisterInput) error {
	fields := g.Validate.Struct(in)
	if fields == nil {
		fields = validation.Errors{}
	}

	if !fields.Has("email") {
		taken, err := g.exists(ctx, g.Users.GetByEmail, in.Email)
		if err != nil {
			return err
		}
		if taken {
			fields.Add("email", takenMessage("email"))
		}
	}
	if !fields.Has("nik") {
		taken, err := g.exists(ctx, g.Users.GetByNIK, in.NIK)
		if err != nil {
			return err
		}
		if taken {
			fields.Add("nik", takenMessage("nik"))
		}
	}

	if fields.Any() {
		return &Error{Kind: KindValidation, Message: fields.First(registerFieldOrder...), Fields: fields}
	}
	return nil
}

func (g *Gateway) exists(ctx context.Context, get func(context.Context, string) (models.User, error), key string) (bool, error) {
	_, err := get(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, &Error{Kind: KindInternal, Message: "db error", Err: err}
	}
}

type RecognizeInput struct {
	Image string `json:"image" validate:"required"`
}

type RecognizeResult struct {
	User       models.User
	NIK        string
	Confidence any
	External   any
}

func (g *Gateway) Recognize(ctx context.Context, in RecognizeInput) (RecognizeResult, error) {
	ctx = context.WithoutCancel(ctx)
	in.Image = strings.TrimSpace(in.Image)
	if fields := g.Validate.Struct(in); fields != nil {
		return RecognizeResult{}, &Error{Kind: KindValidation, Message: fields.First("image"), Fields: fields}
	}

	rec, err := g.Faces.RecognizeFace(ctx, imgutil.StripDataURI(in.Image))
	if err != nil {
		return RecognizeResult{}, g.faceError(ctx, err, MsgRecognizeFailed)
	}
	if !rec.Matched() {
		return RecognizeResult{}, &Error{Kind: KindNotFound, Message: MsgNotRecognized}
	}

	u, err := g.Users.GetByNIK(ctx, rec.NIK)
	if errors.Is(err, repo.ErrNotFound) {
		return RecognizeResult{}, &Error{Kind: KindNotFound, Message: MsgRecognizedNoRecord, NIK: rec.NIK}
	}
	if err != nil {
		return RecognizeResult{}, &Error{Kind: KindInternal, Message: "db error", Err: err}
	}

	var confidence any
	if c := rec.ConfidenceValue(); c != nil {
		confidence = c
	}
	return RecognizeResult{User: u, NIK: rec.NIK, Confidence: confidence, External: rec.Payload()}, nil
}

func (g *Gateway) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := g.Users.List(ctx)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "db error", Err: err}
	}
	return users, nil
}

func (g *Gateway) UserByID(ctx context.Context, id string) (models.User, error) {
	u, err := g.Users.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, &Error{Kind: KindNotFound, Message: "user not found", Err: err}
	}
	if err != nil {
		return models.User{}, &Error{Kind: KindInternal, Message: "db error", Err: err}
	}
	return u, nil
}

func (g *Gateway) faceError(ctx context.Context, err error, failMsg string) error {
	var se *facesvc.StatusError
	if errors.As(err, &se) {
		g.Log.ErrorContext(ctx, "face service returned error",
			"endpoint", se.Endpoint, "status", se.StatusCode, "body", string(se.Body))
		return &Error{Kind: KindExternal, Message: failMsg, StatusCode: se.StatusCode, Payload: se.Payload(), Err: err}
	}
	g.Log.ErrorContext(ctx, "face service unreachable", "error", err)
	return &Error{Kind: KindTransport, Message: MsgUnreachable, Err: err}
}

func (g *Gateway) hashCost() int {
	if g.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return g.HashCost
}

func takenMessage(field string) string {
	return "The " + field + " has already been taken."
}
