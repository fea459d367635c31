package identity

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/AnshRaj112/reportguard-backend/internal/models"
)

// firebaseAuth is the subset of *auth.Client we call.
type firebaseAuth interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error
	DeleteUser(ctx context.Context, uid string) error
}

// Firebase implements Provider on top of Firebase Authentication.
type Firebase struct {
	client firebaseAuth

	// error classifiers, swappable in tests
	isExpired  func(error) bool
	isInvalid  func(error) bool
	isNotFound func(error) bool
}

// NewFirebase initializes the Firebase Admin SDK. credentialsFile may be
// empty, in which case Application Default Credentials are used.
func NewFirebase(ctx context.Context, credentialsFile, projectID string) (*Firebase, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get firebase auth client: %w", err)
	}
	return newFirebase(client), nil
}

func newFirebase(client firebaseAuth) *Firebase {
	return &Firebase{
		client:     client,
		isExpired:  auth.IsIDTokenExpired,
		isInvalid:  auth.IsIDTokenInvalid,
		isNotFound: auth.IsUserNotFound,
	}
}

// Verify checks an ID token and returns the caller's claims.
func (f *Firebase) Verify(ctx context.Context, token string) (*models.Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	tok, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		switch {
		case f.isExpired(err):
			return nil, ErrTokenExpired
		case f.isInvalid(err):
			return nil, ErrTokenInvalid
		default:
			log.Printf("firebase token verification failed: %v", err)
			return nil, ErrUnverified
		}
	}
	return ClaimsFromMap(tok.UID, tok.Claims), nil
}

// SetProfileClaims replaces the custom claims for uid with role and status.
func (f *Firebase) SetProfileClaims(ctx context.Context, uid string, role models.Role, status models.ProfileStatus) error {
	claims := map[string]interface{}{
		"role":   string(role),
		"status": string(status),
	}
	if err := f.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("set custom claims for %s: %w", uid, err)
	}
	return nil
}

// DeleteAccount deletes the Firebase account. A missing account is reported
// as ErrAccountNotFound.
func (f *Firebase) DeleteAccount(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		if f.isNotFound(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete firebase user %s: %w", uid, err)
	}
	return nil
}
