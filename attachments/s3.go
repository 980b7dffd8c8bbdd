package attachments

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"todo-api/models"
)

// Presigner is the subset of s3.PresignClient used here.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store hands out presigned PUT URLs for objects in a single bucket.
type S3Store struct {
	presigner Presigner
	bucket    string
	expires   time.Duration
}

func NewS3Store(presigner Presigner, bucket string, expires time.Duration) *S3Store {
	return &S3Store{presigner: presigner, bucket: bucket, expires: expires}
}

// PublicURL is where the object is readable once uploaded.
func (s *S3Store) PublicURL(attachmentID string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, attachmentID)
}

func (s *S3Store) UploadURL(ctx context.Context, attachmentID string) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(attachmentID),
	}, s3.WithPresignExpires(s.expires))
	if err != nil {
		return "", models.NewStorageError("presign put", err)
	}
	return req.URL, nil
}
