// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for
// uploading, deleting, and serving media files. It wraps the AWS SDK v2
// and is configured for path-style access (required by CEPH/Hetzner).
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client for media operations on a public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client configured for CEPH/Hetzner with
// path-style addressing. Returns (nil, nil) if endpoint or credentials
// are empty, allowing the app to start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores an object with public-read ACL so it can be served
// directly and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object from the bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for a stored file.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ExtractKey extracts the object key from a public file URL.
// Returns the key and true if the URL matches the storage URL pattern,
// or ("", false) if it doesn't belong to this storage.
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	// Try publicURL prefix first (CDN or custom domain).
	if c.publicURL != "" {
		prefix := c.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	// Try endpoint/bucket prefix (path-style S3).
	prefix := c.endpoint + "/" + c.bucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}
