package usecase

import (
	"context"
	"io"
)

// FirebaseAuthClient abstracts the identity provider.
type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	SignInWithEmailPassword(email, password string) (string, error)
}

// FileUploader abstracts blob storage for listing images and attachments.
type FileUploader interface {
	UploadFile(ctx context.Context, file io.Reader, filename, contentType, folder string) (url, path string, err error)
}
