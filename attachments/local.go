package attachments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todo-api/models"
)

var (
	ErrInvalidUploadToken = errors.New("invalid upload token")
	ErrInvalidAttachment  = errors.New("invalid attachment id")
)

type uploadClaims struct {
	Method string `json:"method"`
	jwt.RegisteredClaims
}

// LocalStore writes attachments to disk and serves them from this API.
// Upload URLs carry a short-lived HS256 token scoped to one object.
type LocalStore struct {
	dir     string
	baseURL string
	secret  []byte
	expires time.Duration
	now     func() time.Time
}

func NewLocalStore(dir, baseURL string, secret []byte, expires time.Duration) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: baseURL,
		secret:  secret,
		expires: expires,
		now:     time.Now,
	}, nil
}

func (s *LocalStore) PublicURL(attachmentID string) string {
	return s.baseURL + "/uploads/" + url.PathEscape(attachmentID)
}

func (s *LocalStore) UploadURL(_ context.Context, attachmentID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, uploadClaims{
		Method: "PUT",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   attachmentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expires)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", models.NewStorageError("sign upload url", err)
	}
	return s.PublicURL(attachmentID) + "?token=" + url.QueryEscape(signed), nil
}

// Verify checks that token authorizes a PUT of attachmentID.
func (s *LocalStore) Verify(attachmentID, token string) error {
	claims := &uploadClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return ErrInvalidUploadToken
	}
	if claims.Subject != attachmentID || claims.Method != "PUT" {
		return ErrInvalidUploadToken
	}
	return nil
}

// Save stores body as attachmentID, replacing any previous content. The
// body is staged in a temp file and only renamed into place once fully
// written, so a failed upload leaves the earlier attachment untouched.
func (s *LocalStore) Save(attachmentID string, body io.Reader) (int64, error) {
	path, err := s.Path(attachmentID)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create attachment: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if err != nil {
		tmp.Close()
		return n, fmt.Errorf("write attachment: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("write attachment: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("store attachment: %w", err)
	}
	return n, nil
}

// Path resolves the on-disk location. Only UUIDs are accepted, which keeps
// lookups inside dir.
func (s *LocalStore) Path(attachmentID string) (string, error) {
	if _, err := uuid.Parse(attachmentID); err != nil {
		return "", ErrInvalidAttachment
	}
	return filepath.Join(s.dir, attachmentID), nil
}
