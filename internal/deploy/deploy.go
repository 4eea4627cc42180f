// Package deploy syncs the gallery site to S3 for operators who host the
// portfolio behind CloudFront instead of a git-based pages service. Only
// changed files are uploaded; published photo names are immutable (indices
// only ever grow), so photos get long-lived cache headers while the page
// itself must revalidate.
package deploy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Config holds deployment configuration.
type Config struct {
	Bucket       string
	Region       string
	Distribution string // CloudFront distribution ID (optional)
	DryRun       bool
	Verbose      bool
}

// Result holds the results of a deployment.
type Result struct {
	Uploaded int
	Deleted  int
	Skipped  int
	Errors   []error
}

// FileEntry represents a local file to deploy.
type FileEntry struct {
	Path         string // S3 key, relative to the site root
	ContentType  string
	CacheControl string
	Hash         string // hex-encoded SHA-256
}

// S3Client is the subset of S3 operations used during deployment.
type S3Client interface {
	PutObject(ctx context.Context, key string, body io.Reader, contentType, cacheControl, sha256Hash string) error
	DeleteObject(ctx context.Context, key string) error
	ListObjects(ctx context.Context, prefix string) (map[string]string, error) // key -> hash metadata
}

// CloudFrontClient invalidates cached paths after an upload.
type CloudFrontClient interface {
	CreateInvalidation(ctx context.Context, distributionID string, paths []string) error
}

// ContentTypeForExt returns the MIME type for a file extension. The gallery
// only produces a handful of types; anything else falls back to the standard
// library tables.
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".ico":
		return "image/x-icon"
	case ".txt":
		return "text/plain; charset=utf-8"
	}
	if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// CacheControlForExt returns the Cache-Control header for a file extension.
//
// Policy:
//   - HTML: "public, max-age=0, must-revalidate" (the page changes on every
//     publish)
//   - Images: "public, max-age=31536000, immutable" (index-prefixed names
//     are never reused)
//   - Other files: "public, max-age=3600"
func CacheControlForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return "public, max-age=0, must-revalidate"
	case ".jpg", ".jpeg", ".png", ".webp":
		return "public, max-age=31536000, immutable"
	default:
		return "public, max-age=3600"
	}
}

// HashFile computes the SHA-256 hash of a file and returns it as a hex string.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ScanSite walks the site root and returns a FileEntry per deployable file.
// The exclude list names top-level entries that never ship: the input
// directory, the config file, repository metadata. Hidden files are always
// skipped.
func ScanSite(root string, exclude []string) ([]FileEntry, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[filepath.Clean(e)] = true
	}

	var entries []FileEntry
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		if relPath == "." {
			return nil
		}

		base := filepath.Base(relPath)
		topLevel := strings.Split(filepath.ToSlash(relPath), "/")[0]
		if strings.HasPrefix(base, ".") || excluded[topLevel] {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		hash, err := HashFile(path)
		if err != nil {
			return err
		}

		ext := filepath.Ext(path)
		entries = append(entries, FileEntry{
			Path:         filepath.ToSlash(relPath),
			ContentType:  ContentTypeForExt(ext),
			CacheControl: CacheControlForExt(ext),
			Hash:         hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning site files: %w", err)
	}

	return entries, nil
}

// Diff compares local files against remote object hashes and returns the
// files to upload (new or changed) and the keys to delete (remote only).
func Diff(local []FileEntry, remoteHashes map[string]string) (toUpload []FileEntry, toDelete []string) {
	localMap := make(map[string]FileEntry, len(local))
	for _, entry := range local {
		localMap[entry.Path] = entry
	}

	for _, entry := range local {
		remoteHash, exists := remoteHashes[entry.Path]
		if !exists || remoteHash != entry.Hash {
			toUpload = append(toUpload, entry)
		}
	}

	for key := range remoteHashes {
		if _, exists := localMap[key]; !exists {
			toDelete = append(toDelete, key)
		}
	}

	return toUpload, toDelete
}

// Sync deploys the site root to S3 and invalidates CloudFront when a
// distribution is configured. With DryRun set, the plan is printed and
// nothing is mutated.
func Sync(ctx context.Context, cfg Config, root string, exclude []string, s3 S3Client, cf CloudFrontClient) (*Result, error) {
	result := &Result{}

	localFiles, err := ScanSite(root, exclude)
	if err != nil {
		return nil, err
	}

	remoteHashes, err := s3.ListObjects(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing remote objects: %w", err)
	}

	toUpload, toDelete := Diff(localFiles, remoteHashes)
	result.Skipped = len(localFiles) - len(toUpload)

	if cfg.DryRun {
		for _, f := range toUpload {
			fmt.Printf("[dry-run] upload: %s (%s)\n", f.Path, f.ContentType)
		}
		for _, key := range toDelete {
			fmt.Printf("[dry-run] delete: %s\n", key)
		}
		if cfg.Distribution != "" {
			fmt.Printf("[dry-run] invalidate CloudFront distribution: %s\n", cfg.Distribution)
		}
		result.Uploaded = len(toUpload)
		result.Deleted = len(toDelete)
		return result, nil
	}

	for _, entry := range toUpload {
		fullPath := filepath.Join(root, filepath.FromSlash(entry.Path))
		f, err := os.Open(fullPath)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("opening %s: %w", entry.Path, err))
			continue
		}

		err = s3.PutObject(ctx, entry.Path, f, entry.ContentType, entry.CacheControl, entry.Hash)
		f.Close()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("uploading %s: %w", entry.Path, err))
			continue
		}
		result.Uploaded++
		if cfg.Verbose {
			fmt.Printf("uploaded: %s\n", entry.Path)
		}
	}

	for _, key := range toDelete {
		if err := s3.DeleteObject(ctx, key); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("deleting %s: %w", key, err))
			continue
		}
		result.Deleted++
		if cfg.Verbose {
			fmt.Printf("deleted: %s\n", key)
		}
	}

	if cfg.Distribution != "" && cf != nil && (result.Uploaded > 0 || result.Deleted > 0) {
		if err := cf.CreateInvalidation(ctx, cfg.Distribution, []string{"/*"}); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("CloudFront invalidation: %w", err))
		} else if cfg.Verbose {
			fmt.Printf("invalidated CloudFront distribution: %s\n", cfg.Distribution)
		}
	}

	return result, nil
}
