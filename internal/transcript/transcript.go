// Package transcript reads meeting transcripts from the supported file
// formats and returns them as plain text, one utterance or paragraph per
// line block.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension sets for upload dispatch.
var (
	TranscriptExtensions = map[string]bool{
		".txt":  true,
		".vtt":  true,
		".docx": true,
		".md":   true,
		".html": true,
		".htm":  true,
		".pdf":  true,
	}
	AudioExtensions = map[string]bool{
		".mp3":  true,
		".wav":  true,
		".m4a":  true,
		".flac": true,
		".ogg":  true,
	}
	VideoExtensions = map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".webm": true,
	}
)

// IsTranscript reports whether the filename is a readable transcript format.
func IsTranscript(filename string) bool {
	return TranscriptExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsAudio reports whether the filename is a supported audio format.
func IsAudio(filename string) bool {
	return AudioExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsVideo reports whether the filename is a supported video format.
func IsVideo(filename string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Read loads a transcript file, dispatching on extension.
func Read(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(raw), nil
	case ".vtt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return ReadVTT(string(raw)), nil
	case ".docx":
		return readDOCX(path)
	case ".md", ".markdown":
		return readMarkdown(path)
	case ".html", ".htm":
		return readHTML(path)
	case ".pdf":
		return readPDF(path)
	default:
		return "", fmt.Errorf("unsupported transcript format: %s", ext)
	}
}
