package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/vinoventas/dashboard/internal/domain"
)

// LoadGCS downloads the dataset object from a "gs://bucket/object" URI and
// decodes it. Application Default Credentials are assumed.
func LoadGCS(ctx context.Context, gcsURI string) ([]domain.SaleRecord, error) {
	bucket, object, err := splitGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}

	records, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", gcsURI, err)
	}
	return records, nil
}

// UploadGCS writes a finished export (or any blob) to a GCS object.
func UploadGCS(ctx context.Context, gcsURI string, data []byte) error {
	bucket, object, err := splitGCSURI(gcsURI)
	if err != nil {
		return err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write GCS object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize GCS upload: %w", err)
	}
	return nil
}

func splitGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	if trimmed == uri {
		return "", "", fmt.Errorf("not a gs:// URI: %q", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed GCS URI: %q", uri)
	}
	return parts[0], parts[1], nil
}
