package transcribe

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExtractAudio pulls the audio track out of a video file into an MP3 using
// ffmpeg. The caller owns the output path.
func ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		audioPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, truncate(stderr.String(), 500))
	}
	return nil
}
