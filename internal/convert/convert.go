// Package convert renders a generated DOCX report to PDF with a headless
// LibreOffice process.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ToPDF converts docxPath to a PDF at pdfPath. LibreOffice writes next to
// the input name inside the output directory, so the result is renamed when
// the caller asked for a different name.
func ToPDF(ctx context.Context, docxPath, pdfPath string) error {
	outDir := filepath.Dir(pdfPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, "libreoffice",
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		docxPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("libreoffice: %w: %s", err, truncate(stderr.String(), 500))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	generated := filepath.Join(outDir, base+".pdf")
	if generated == pdfPath {
		return nil
	}
	if err := os.Rename(generated, pdfPath); err != nil {
		return fmt.Errorf("rename pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
