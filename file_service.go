package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileService writes run artifacts under one directory per post.
type FileService struct {
	outputDir string
}

func NewFileService(outputDir string) *FileService {
	return &FileService{outputDir: outputDir}
}

// PostDir returns the artifact directory for one post id.
func (f *FileService) PostDir(postID string) string {
	return filepath.Join(f.outputDir, POST_DIR_PREFIX+postID)
}

func (f *FileService) EnsurePostDir(postID string) (string, error) {
	dir := f.PostDir(postID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return dir, nil
}

// SaveJSON writes v as indented JSON and returns the written path.
func (f *FileService) SaveJSON(dir, filename string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return f.SaveBytes(dir, filename, data)
}

func (f *FileService) SaveBytes(dir, filename string, data []byte) (string, error) {
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (f *FileService) SaveText(dir, filename, content string) (string, error) {
	return f.SaveBytes(dir, filename, []byte(content))
}
