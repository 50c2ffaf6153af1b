package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	apperrors "go-image-quality/internal/errors"
)

// BlobHostSuffix identifies Azure Blob Storage URLs
const BlobHostSuffix = ".blob.core.windows.net"

// BlobLocation addresses one blob
type BlobLocation struct {
	Account   string
	Container string
	Blob      string
}

// ParseBlobURL splits https://<account>.blob.core.windows.net/<container>/<blob>
func ParseBlobURL(ref string) (BlobLocation, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return BlobLocation{}, fmt.Errorf("invalid blob URL: %w", err)
	}

	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, BlobHostSuffix) {
		return BlobLocation{}, fmt.Errorf("not a blob storage host: %q", host)
	}
	account := strings.TrimSuffix(host, BlobHostSuffix)

	container, blob, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if account == "" || !ok || container == "" || blob == "" {
		return BlobLocation{}, fmt.Errorf("blob URL must name a container and a blob: %q", ref)
	}
	return BlobLocation{Account: account, Container: container, Blob: blob}, nil
}

// IsBlobURL reports whether ref points at Azure Blob Storage
func IsBlobURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && strings.HasSuffix(strings.ToLower(u.Hostname()), BlobHostSuffix)
}

type azureStorage struct {
	account  string
	client   *azblob.Client
	maxBytes int64
}

// NewAzureStorage creates a blob source authenticated with a shared key
func NewAzureStorage(accountName, accountKey string, maxBytes int64) (ImageSource, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s%s", accountName, BlobHostSuffix),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &azureStorage{account: strings.ToLower(accountName), client: client, maxBytes: maxBytes}, nil
}

func (s *azureStorage) Name() string { return "azure" }

// Fetch downloads the blob into a temporary file
func (s *azureStorage) Fetch(ctx context.Context, ref string) (*LocalImage, error) {
	loc, err := ParseBlobURL(ref)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid blob URL", err)
	}
	if loc.Account != s.account {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("blob account %q is not configured", loc.Account), nil)
	}

	resp, err := s.client.DownloadStream(ctx, loc.Container, loc.Blob, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, apperrors.NewNotFoundError("blob not found", err)
		}
		if ctx.Err() != nil {
			return nil, contextError(ctx.Err())
		}
		return nil, apperrors.NewNetworkError("blob download failed", err)
	}
	defer resp.Body.Close()

	img, err := NewTempImage(resp.Body, loc.Blob, ref, s.maxBytes)
	if errors.Is(err, ErrTooLarge) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("image larger than %d bytes", s.maxBytes), err)
	}
	if err != nil {
		return nil, apperrors.NewNetworkError("blob download failed", err)
	}
	return img, nil
}
