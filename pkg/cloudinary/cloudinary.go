// Package cloudinary wraps document uploads for payment receipts. Callers
// validate the extension/type pairing before anything reaches this package.
package cloudinary

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads payment receipt documents (pdf or raster image) and returns
// their public URL.
type Client interface {
	UploadDocument(ctx context.Context, file io.Reader, folder, publicID, documentType string) (url string, err error)
}

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func (c *clientImpl) UploadDocument(ctx context.Context, file io.Reader, folder, publicID, documentType string) (string, error) {
	params := uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID,
	}
	// PDFs upload as raw assets; images go through the image pipeline.
	if documentType == "pdf" {
		params.ResourceType = "raw"
	}
	result, err := c.uploader.Upload(ctx, file, params)
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: upload returned no url for %s", publicID)
	}
	return result.SecureURL, nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
